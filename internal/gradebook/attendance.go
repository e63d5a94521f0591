package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/gradebook/internal/model"
)

// AttendanceMark is the status of one student on an attendance sheet.
type AttendanceMark struct {
	Status model.AttendanceStatus
	Notes  string
}

// AttendanceSheet is one lesson's attendance for a whole class.
type AttendanceSheet struct {
	ClassID   string
	SubjectID string
	Date      string                    // yyyy-MM-dd
	Marks     map[string]AttendanceMark // by student ID; unmarked students are present
}

// RecordAttendance replaces every record for the sheet's class, subject and
// date with one record per student currently in the class.
func (s *Service) RecordAttendance(ctx context.Context, sheet AttendanceSheet) ([]model.AttendanceRecord, error) {
	probe := model.AttendanceRecord{
		StudentID: "-",
		ClassID:   sheet.ClassID,
		SubjectID: sheet.SubjectID,
		Date:      sheet.Date,
		Status:    model.StatusPresent,
	}
	if err := model.Validate("attendance", probe); err != nil {
		return nil, err
	}

	var created []model.AttendanceRecord
	err := mutate(ctx, s, s.records.Attendance, func(items []model.AttendanceRecord) ([]model.AttendanceRecord, error) {
		if err := mustExist(ctx, s.records.Classes, "class", sheet.ClassID, classIDOf); err != nil {
			return nil, err
		}
		if err := mustExist(ctx, s.records.Subjects, "subject", sheet.SubjectID, subjectIDOf); err != nil {
			return nil, err
		}
		students, err := s.records.Students.Load(ctx)
		if err != nil {
			return nil, err
		}
		roster := slices.DeleteFunc(students, func(st model.Student) bool { return st.ClassID != sheet.ClassID })

		for id, mark := range sheet.Marks {
			if !slices.ContainsFunc(roster, func(st model.Student) bool { return st.ID == id }) {
				return nil, invalid("attendance", "studentId", fmt.Sprintf("student %q is not in class %q", id, sheet.ClassID))
			}
			if !mark.Status.Valid() {
				return nil, invalid("attendance", "status", fmt.Sprintf("status %q must be one of hadir, sakit, ijin, alfa", mark.Status))
			}
		}

		items = slices.DeleteFunc(items, func(r model.AttendanceRecord) bool {
			return r.ClassID == sheet.ClassID && r.SubjectID == sheet.SubjectID && r.Date == sheet.Date
		})
		for _, st := range roster {
			mark, ok := sheet.Marks[st.ID]
			if !ok {
				mark = AttendanceMark{Status: model.StatusPresent}
			}
			created = append(created, model.AttendanceRecord{
				ID:        s.ids.NewID(),
				StudentID: st.ID,
				ClassID:   sheet.ClassID,
				SubjectID: sheet.SubjectID,
				Date:      sheet.Date,
				Status:    mark.Status,
				Notes:     model.Normalize(mark.Notes),
			})
		}
		return append(items, created...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	slog.Debug("attendance recorded",
		"class", sheet.ClassID,
		"subject", sheet.SubjectID,
		"date", sheet.Date,
		"records", len(created),
	)
	return created, nil
}

// AttendanceFilter narrows ListAttendance. Empty fields match everything.
type AttendanceFilter struct {
	ClassID   string
	SubjectID string
	Date      string
}

// ListAttendance returns the matching records in stored order.
func (s *Service) ListAttendance(ctx context.Context, f AttendanceFilter) ([]model.AttendanceRecord, error) {
	items, err := s.records.Attendance.Load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(items, func(r model.AttendanceRecord) bool {
		return (f.ClassID != "" && r.ClassID != f.ClassID) ||
			(f.SubjectID != "" && r.SubjectID != f.SubjectID) ||
			(f.Date != "" && r.Date != f.Date)
	}), nil
}

// DeleteAttendance removes one attendance record by ID.
func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Attendance, func(items []model.AttendanceRecord) ([]model.AttendanceRecord, error) {
		return removeByID(items, "attendance", id, attendanceIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}
