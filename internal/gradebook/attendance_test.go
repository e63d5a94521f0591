package gradebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/model"
)

func TestRecordAttendance_DefaultsToPresent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	recs, err := s.RecordAttendance(ctx, AttendanceSheet{
		ClassID:   f.class7A,
		SubjectID: f.math,
		Date:      "2024-07-01",
		Marks:     map[string]AttendanceMark{f.budi: {Status: model.StatusSick, Notes: "flu"}},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, f.ayu, recs[0].StudentID)
	assert.Equal(t, model.StatusPresent, recs[0].Status)
	assert.Equal(t, model.StatusSick, recs[1].Status)
	assert.Equal(t, "flu", recs[1].Notes)
}

func TestRecordAttendance_ReplacesSameLesson(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	sheet := AttendanceSheet{ClassID: f.class7A, SubjectID: f.math, Date: "2024-07-01"}
	_, err := s.RecordAttendance(ctx, sheet)
	require.NoError(t, err)

	sheet.Marks = map[string]AttendanceMark{f.ayu: {Status: model.StatusAbsent}}
	_, err = s.RecordAttendance(ctx, sheet)
	require.NoError(t, err)

	other := AttendanceSheet{ClassID: f.class7A, SubjectID: f.math, Date: "2024-07-02"}
	_, err = s.RecordAttendance(ctx, other)
	require.NoError(t, err)

	day1, err := s.ListAttendance(ctx, AttendanceFilter{ClassID: f.class7A, Date: "2024-07-01"})
	require.NoError(t, err)
	require.Len(t, day1, 2)
	assert.Equal(t, model.StatusAbsent, day1[0].Status)

	all, err := s.ListAttendance(ctx, AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRecordAttendance_Rejects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.RecordAttendance(ctx, AttendanceSheet{ClassID: f.class7A, SubjectID: f.math, Date: "01/07/2024"})
	assert.True(t, IsValidation(err), "date must be yyyy-MM-dd")

	_, err = s.RecordAttendance(ctx, AttendanceSheet{ClassID: "ghost", SubjectID: f.math, Date: "2024-07-01"})
	assert.True(t, IsNotFound(err))

	_, err = s.RecordAttendance(ctx, AttendanceSheet{
		ClassID: f.class7A, SubjectID: f.math, Date: "2024-07-01",
		Marks: map[string]AttendanceMark{f.citra: {Status: model.StatusPresent}},
	})
	assert.True(t, IsValidation(err), "student from another class")

	_, err = s.RecordAttendance(ctx, AttendanceSheet{
		ClassID: f.class7A, SubjectID: f.math, Date: "2024-07-01",
		Marks: map[string]AttendanceMark{f.ayu: {Status: "late"}},
	})
	assert.True(t, IsValidation(err))

	all, err := s.ListAttendance(ctx, AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteAttendance(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	recs, err := s.RecordAttendance(ctx, AttendanceSheet{ClassID: f.class7B, SubjectID: f.physics, Date: "2024-07-01"})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, s.DeleteAttendance(ctx, recs[0].ID))
	assert.True(t, IsNotFound(s.DeleteAttendance(ctx, recs[0].ID)))
}
