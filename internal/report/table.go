package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/roach88/gradebook/internal/model"
)

// Missing is rendered for values that are absent.
const Missing = "-"

// Table is a flat, ordered rendering of a report, ready for CSV or
// spreadsheet serialisation.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// BuildScoreTable flattens a score report.
//
// Column order is fixed: Name, NIS, then for each category (stored order) and
// each subject in scope (stored order) one column per assessment followed by
// the pair's average, then one final-grade column per subject.
func BuildScoreTable(rep ScoreReport) Table {
	t := Table{Title: scoreTitle(rep)}

	type rawCol struct {
		categoryID, subjectID, assessment string
		average                           bool
	}
	var cols []rawCol

	t.Header = []string{"Name", "NIS"}
	for _, cat := range rep.Categories {
		for _, subj := range rep.Subjects {
			for _, name := range rep.Assessments(cat.ID, subj.ID) {
				t.Header = append(t.Header, fmt.Sprintf("%s / %s / %s", cat.Name, subj.Name, name))
				cols = append(cols, rawCol{categoryID: cat.ID, subjectID: subj.ID, assessment: name})
			}
			t.Header = append(t.Header, fmt.Sprintf("%s / %s / Average", cat.Name, subj.Name))
			cols = append(cols, rawCol{categoryID: cat.ID, subjectID: subj.ID, average: true})
		}
	}
	for _, subj := range rep.Subjects {
		t.Header = append(t.Header, fmt.Sprintf("%s / Final", subj.Name))
	}

	for _, row := range rep.Rows {
		line := []string{row.Student.Name, row.Student.StudentNumber}
		for _, c := range cols {
			var v float64
			var ok bool
			if c.average {
				v, ok = row.Average(c.categoryID, c.subjectID)
			} else {
				v, ok = row.Raw(c.categoryID, c.subjectID, c.assessment)
			}
			line = append(line, formatCell(v, ok))
		}
		for _, subj := range rep.Subjects {
			v, ok := row.Final(subj.ID)
			line = append(line, formatCell(v, ok))
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

// BuildAttendanceTable flattens an attendance report. Percentages are rounded
// to whole numbers here and nowhere earlier.
func BuildAttendanceTable(rep AttendanceReport) Table {
	t := Table{
		Title:  attendanceTitle(rep),
		Header: []string{"Name", "NIS", "Present", "Sick", "Excused", "Absent", "Total", "Attendance"},
	}
	for _, row := range rep.Rows {
		t.Rows = append(t.Rows, attendanceLine(row.Student.Name, row.Student.StudentNumber, row.AttendanceCounts, row.Percentage))
	}
	if len(rep.Rows) > 0 {
		t.Rows = append(t.Rows, attendanceLine("Total", "", rep.Totals, rep.Overall()))
	}
	return t
}

func attendanceLine(name, nis string, c AttendanceCounts, pct float64) []string {
	return []string{
		name,
		nis,
		fmt.Sprint(c.Present),
		fmt.Sprint(c.Sick),
		fmt.Sprint(c.Excused),
		fmt.Sprint(c.Absent),
		fmt.Sprint(c.Total),
		FormatPercent(pct),
	}
}

// FormatPercent renders a ratio percentage rounded to a whole number.
func FormatPercent(p float64) string {
	return model.FormatNumber(model.Round(p)) + "%"
}

func formatCell(v float64, ok bool) string {
	if !ok {
		return Missing
	}
	return model.FormatNumber(v)
}

func scoreTitle(rep ScoreReport) string {
	name := rep.ClassName
	if name == "" {
		name = rep.ClassID
	}
	return "Score report " + name
}

func attendanceTitle(rep AttendanceReport) string {
	name := rep.ClassName
	if name == "" {
		name = rep.Query.ClassID
	}
	return "Attendance report " + name
}

// WriteCSV writes the header and rows of t as CSV. The title is not written;
// it belongs in the file name.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// ExportFileName returns "<prefix>_<label>_<yyyymmdd-hhmmss>.csv". Runs of
// whitespace and path-unsafe characters in label become underscores.
func ExportFileName(prefix, label string, now time.Time) string {
	label = unsafeFileChars.ReplaceAllString(label, "_")
	return fmt.Sprintf("%s_%s_%s.csv", prefix, label, now.Format("20060102-150405"))
}
