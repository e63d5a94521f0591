package gradebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/model"
)

func TestAddClass_AssignsIDAndNormalises(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, err := s.AddClass(ctx, model.Class{Name: "  7A  ", Teacher: "Bu Sari"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, "7A", c.Name)

	classes, err := s.ListClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Class{c}, classes)
}

func TestAddClass_NameRequired(t *testing.T) {
	s := newTestService(t)

	_, err := s.AddClass(context.Background(), model.Class{Name: "   "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateClass(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.UpdateClass(ctx, model.Class{ID: f.class7A, Name: "7A Unggulan"})
	require.NoError(t, err)

	ds, err := s.Dataset(ctx)
	require.NoError(t, err)
	c, ok := ds.FindClass(f.class7A)
	require.True(t, ok)
	assert.Equal(t, "7A Unggulan", c.Name)

	_, err = s.UpdateClass(ctx, model.Class{ID: "missing", Name: "X"})
	assert.True(t, IsNotFound(err))
}

func TestDeleteClass_CascadesToStudentsOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.RecordScore(ctx, model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1", Value: 80})
	require.NoError(t, err)

	before, _ := s.Records().Backend().Revision(ctx)
	require.NoError(t, s.DeleteClass(ctx, f.class7A))
	after, _ := s.Records().Backend().Revision(ctx)
	assert.Equal(t, before+1, after, "class and students are written together")

	ds, err := s.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Classes, 1)
	require.Len(t, ds.Students, 1)
	assert.Equal(t, f.citra, ds.Students[0].ID)
	assert.Len(t, ds.Scores, 1, "scores of removed students are kept")
}

func TestDeleteClass_NotFound(t *testing.T) {
	s := newTestService(t)
	err := s.DeleteClass(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestAddStudent_UnknownClassRejected(t *testing.T) {
	s := newTestService(t)

	_, err := s.AddStudent(context.Background(), model.Student{Name: "Ayu", ClassID: "ghost"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `class "ghost" not found`)
}

func TestAddStudent_WithoutClass(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	st, err := s.AddStudent(ctx, model.Student{Name: "Dewi"})
	require.NoError(t, err)
	assert.Empty(t, st.ClassID)

	all, err := s.ListStudents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListStudents_ByClass(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	students, err := s.ListStudents(ctx, f.class7A)
	require.NoError(t, err)
	var names []string
	for _, st := range students {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"Ayu", "Budi"}, names)
}

func TestUpdateAndDeleteStudent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.UpdateStudent(ctx, model.Student{ID: f.budi, Name: "Budi S.", StudentNumber: "1002", ClassID: f.class7B})
	require.NoError(t, err)

	in7B, err := s.ListStudents(ctx, f.class7B)
	require.NoError(t, err)
	assert.Len(t, in7B, 2)

	require.NoError(t, s.DeleteStudent(ctx, f.budi))
	assert.True(t, IsNotFound(s.DeleteStudent(ctx, f.budi)))
}
