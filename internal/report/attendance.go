package report

import (
	"log/slog"
	"sort"

	"github.com/roach88/gradebook/internal/model"
)

// AttendanceQuery selects the records of an attendance report.
// From and To are inclusive yyyy-MM-dd bounds; an empty bound is open.
type AttendanceQuery struct {
	ClassID   string
	SubjectID string // AllSubjects or a subject ID
	From      string
	To        string
}

// AttendanceCounts tallies records by status.
type AttendanceCounts struct {
	Present int
	Sick    int
	Excused int
	Absent  int
	Total   int
}

// Percentage returns Present/Total*100, or 0 when there are no records.
func (c AttendanceCounts) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Present) / float64(c.Total) * 100
}

func (c *AttendanceCounts) add(status model.AttendanceStatus) {
	switch status {
	case model.StatusPresent:
		c.Present++
	case model.StatusSick:
		c.Sick++
	case model.StatusExcused:
		c.Excused++
	case model.StatusAbsent:
		c.Absent++
	}
	// Unknown statuses count toward the total only.
	c.Total++
}

// AttendanceRow is one student's tally.
type AttendanceRow struct {
	Student model.Student
	AttendanceCounts
	Percentage float64 // unrounded
}

// AttendanceReport is the output of BuildAttendanceReport.
type AttendanceReport struct {
	Query     AttendanceQuery
	ClassName string
	Revision  int64
	Rows      []AttendanceRow // percentage descending, stable
	Totals    AttendanceCounts
}

// Overall returns the class-wide present percentage.
func (r AttendanceReport) Overall() float64 { return r.Totals.Percentage() }

// Empty reports whether the report has no rows.
func (r AttendanceReport) Empty() bool { return len(r.Rows) == 0 }

// BuildAttendanceReport counts attendance per student of q.ClassID.
// A missing class or subject selection yields an empty report.
func BuildAttendanceReport(ds *model.Dataset, q AttendanceQuery) AttendanceReport {
	rep := AttendanceReport{Query: q, Revision: ds.Revision}
	if q.ClassID == "" || q.SubjectID == "" {
		return rep
	}
	if c, ok := ds.FindClass(q.ClassID); ok {
		rep.ClassName = c.Name
	}

	counts := make(map[string]*AttendanceCounts)
	for _, rec := range ds.Attendance {
		if !q.matches(rec) {
			continue
		}
		c, ok := counts[rec.StudentID]
		if !ok {
			c = &AttendanceCounts{}
			counts[rec.StudentID] = c
		}
		c.add(rec.Status)
	}

	for _, st := range ds.StudentsInClass(q.ClassID) {
		row := AttendanceRow{Student: st}
		if c, ok := counts[st.ID]; ok {
			row.AttendanceCounts = *c
		}
		row.Percentage = row.AttendanceCounts.Percentage()
		rep.Rows = append(rep.Rows, row)

		rep.Totals.Present += row.Present
		rep.Totals.Sick += row.Sick
		rep.Totals.Excused += row.Excused
		rep.Totals.Absent += row.Absent
		rep.Totals.Total += row.Total
	}

	// Ties keep roster order.
	sort.SliceStable(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].Percentage > rep.Rows[j].Percentage
	})

	slog.Debug("attendance report built",
		"class", q.ClassID,
		"subject", q.SubjectID,
		"from", q.From,
		"to", q.To,
		"students", len(rep.Rows),
	)
	return rep
}

func (q AttendanceQuery) matches(rec model.AttendanceRecord) bool {
	if rec.ClassID != q.ClassID {
		return false
	}
	if q.SubjectID != AllSubjects && rec.SubjectID != q.SubjectID {
		return false
	}
	if q.From != "" && rec.Date < q.From {
		return false
	}
	if q.To != "" && rec.Date > q.To {
		return false
	}
	return true
}
