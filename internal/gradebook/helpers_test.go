package gradebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/ids"
	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(store.NewRecords(store.NewMemory()), WithIDGenerator(ids.NewSequence("id")))
}

// fixture holds the IDs created by seed.
type fixture struct {
	class7A, class7B string
	math, physics    string
	daily, exam      string
	ayu, budi, citra string
}

func seed(t *testing.T, s *Service) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	mustClass := func(name string) string {
		c, err := s.AddClass(ctx, model.Class{Name: name})
		require.NoError(t, err)
		return c.ID
	}
	mustSubject := func(name string) string {
		subj, err := s.AddSubject(ctx, model.Subject{Name: name})
		require.NoError(t, err)
		return subj.ID
	}
	mustCategory := func(name string) string {
		c, err := s.AddCategory(ctx, model.Category{Name: name})
		require.NoError(t, err)
		return c.ID
	}
	mustStudent := func(name, nis, classID string) string {
		st, err := s.AddStudent(ctx, model.Student{Name: name, StudentNumber: nis, ClassID: classID})
		require.NoError(t, err)
		return st.ID
	}

	f.class7A = mustClass("7A")
	f.class7B = mustClass("7B")
	f.math = mustSubject("Math")
	f.physics = mustSubject("Physics")
	f.daily = mustCategory("Daily")
	f.exam = mustCategory("Exam")
	f.ayu = mustStudent("Ayu", "1001", f.class7A)
	f.budi = mustStudent("Budi", "1002", f.class7A)
	f.citra = mustStudent("Citra", "1003", f.class7B)
	return f
}
