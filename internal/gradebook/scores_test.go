package gradebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/report"
)

func TestSetWeight_UpsertsPerCategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	first, err := s.SetWeight(ctx, f.daily, 30)
	require.NoError(t, err)
	second, err := s.SetWeight(ctx, f.daily, 40)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	weights, err := s.ListWeights(ctx)
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.Equal(t, 40.0, weights[0].Percentage)
}

func TestSetWeight_Rejects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.SetWeight(ctx, f.daily, 120)
	assert.True(t, IsValidation(err))

	_, err = s.SetWeight(ctx, f.daily, -1)
	assert.True(t, IsValidation(err))

	_, err = s.SetWeight(ctx, "ghost", 50)
	assert.True(t, IsNotFound(err))
}

func TestWeightStatus_SoftWarning(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.SetWeight(ctx, f.daily, 40)
	require.NoError(t, err)

	st, err := s.WeightStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, st.Total)
	assert.False(t, st.Complete)
	assert.Contains(t, st.Message, "40%")

	_, err = s.SetWeight(ctx, f.exam, 60)
	require.NoError(t, err)
	st, err = s.WeightStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.Complete)
	assert.Empty(t, st.Message)
}

func TestDeleteWeight(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	w, err := s.SetWeight(ctx, f.daily, 40)
	require.NoError(t, err)
	require.NoError(t, s.DeleteWeight(ctx, w.ID))
	assert.True(t, IsNotFound(s.DeleteWeight(ctx, w.ID)))
}

func TestRecordScore_LastWriteWins(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	base := model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1"}

	base.Value = 60
	first, err := s.RecordScore(ctx, base)
	require.NoError(t, err)
	base.Value = 85
	second, err := s.RecordScore(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	scores, err := s.ListScores(ctx, ScoreFilter{StudentID: f.ayu})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, model.Value(85), scores[0].Value)

	names, err := s.ListAssessments(ctx, f.daily, f.math)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quiz 1"}, names, "recording registers the assessment")
}

func TestRecordScore_CollapsesImportedDuplicates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	dup := model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1", Value: 50}
	dup.ID = "dup-1"
	other := dup
	other.ID = "dup-2"
	require.NoError(t, s.Records().Scores.Save(ctx, []model.Score{dup, other}))

	dup.Value = 90
	dup.ID = ""
	_, err := s.RecordScore(ctx, dup)
	require.NoError(t, err)

	scores, err := s.ListScores(ctx, ScoreFilter{})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "dup-1", scores[0].ID)
	assert.Equal(t, model.Value(90), scores[0].Value)
}

func TestRecordScore_Rejects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	tests := []struct {
		name       string
		score      model.Score
		validation bool
		notFound   bool
	}{
		{"above range", model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Q", Value: 101}, true, false},
		{"below range", model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Q", Value: -1}, true, false},
		{"no assessment", model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: " ", Value: 50}, true, false},
		{"unknown student", model.Score{StudentID: "ghost", CategoryID: f.daily, SubjectID: f.math, Assessment: "Q", Value: 50}, false, true},
		{"unknown category", model.Score{StudentID: f.ayu, CategoryID: "ghost", SubjectID: f.math, Assessment: "Q", Value: 50}, false, true},
		{"unknown subject", model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: "ghost", Assessment: "Q", Value: 50}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordScore(ctx, tt.score)
			require.Error(t, err)
			assert.Equal(t, tt.validation, IsValidation(err))
			assert.Equal(t, tt.notFound, IsNotFound(err))
		})
	}

	scores, err := s.ListScores(ctx, ScoreFilter{})
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestListScores_Filters(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	record := func(student, subject, assessment string, v float64) {
		_, err := s.RecordScore(ctx, model.Score{StudentID: student, CategoryID: f.daily, SubjectID: subject, Assessment: assessment, Value: model.Value(v)})
		require.NoError(t, err)
	}
	record(f.ayu, f.math, "Quiz 1", 80)
	record(f.budi, f.math, "Quiz 1", 70)
	record(f.citra, f.math, "Quiz 1", 90)
	record(f.ayu, f.physics, "Quiz 1", 60)

	inClass, err := s.ListScores(ctx, ScoreFilter{ClassID: f.class7A})
	require.NoError(t, err)
	assert.Len(t, inClass, 3)

	mathOnly, err := s.ListScores(ctx, ScoreFilter{ClassID: f.class7A, SubjectID: f.math})
	require.NoError(t, err)
	assert.Len(t, mathOnly, 2)
}

func TestAssessments_AddRenameDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	added, err := s.AddAssessment(ctx, f.daily, f.math, "Quiz 1")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddAssessment(ctx, f.daily, f.math, "Quiz 1")
	require.NoError(t, err)
	assert.False(t, added, "adding twice is a no-op")
	_, err = s.AddAssessment(ctx, f.daily, f.math, "Quiz 2")
	require.NoError(t, err)

	for _, st := range []string{f.ayu, f.budi} {
		_, err := s.RecordScore(ctx, model.Score{StudentID: st, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1", Value: 75})
		require.NoError(t, err)
	}

	moved, err := s.RenameAssessment(ctx, f.daily, f.math, "Quiz 1", "Kuis 1")
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	names, err := s.ListAssessments(ctx, f.daily, f.math)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kuis 1", "Quiz 2"}, names)

	_, err = s.RenameAssessment(ctx, f.daily, f.math, "Kuis 1", "Quiz 2")
	assert.True(t, IsConflict(err))
	_, err = s.RenameAssessment(ctx, f.daily, f.math, "Missing", "X")
	assert.True(t, IsNotFound(err))

	removed, err := s.DeleteAssessment(ctx, f.daily, f.math, "Kuis 1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	scores, err := s.ListScores(ctx, ScoreFilter{})
	require.NoError(t, err)
	assert.Empty(t, scores)

	names, err = s.ListAssessments(ctx, f.daily, f.math)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quiz 2"}, names)

	_, err = s.DeleteAssessment(ctx, f.daily, f.math, "Kuis 1")
	assert.True(t, IsNotFound(err))
}

func TestRenameAssessment_UnregisteredScoresConflict(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.RecordScore(ctx, model.Score{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1", Value: 80})
	require.NoError(t, err)

	// A restored backup can carry scores whose name was never registered.
	scores, err := s.records.Scores.Load(ctx)
	require.NoError(t, err)
	scores = append(scores, model.Score{ID: "imported", StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 2", Value: 90})
	require.NoError(t, s.records.Scores.Save(ctx, scores))

	_, err = s.RenameAssessment(ctx, f.daily, f.math, "Quiz 1", "Quiz 2")
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	quiz2, err := s.ListScores(ctx, ScoreFilter{StudentID: f.ayu, Assessment: "Quiz 2"})
	require.NoError(t, err)
	assert.Len(t, quiz2, 1)
	names, err := s.ListAssessments(ctx, f.daily, f.math)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quiz 1"}, names)
}

func TestAddAssessment_UnknownPair(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.AddAssessment(ctx, "ghost", f.math, "Quiz")
	assert.True(t, IsNotFound(err))
	_, err = s.AddAssessment(ctx, f.daily, "ghost", "Quiz")
	assert.True(t, IsNotFound(err))
}

// End-to-end: recorded scores flow into the weighted final grade.
func TestScoresFeedScoreReport(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	f := seed(t, s)

	_, err := s.SetWeight(ctx, f.daily, 40)
	require.NoError(t, err)
	_, err = s.SetWeight(ctx, f.exam, 60)
	require.NoError(t, err)

	for _, sc := range []model.Score{
		{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 1", Value: 80},
		{StudentID: f.ayu, CategoryID: f.daily, SubjectID: f.math, Assessment: "Quiz 2", Value: 90},
		{StudentID: f.ayu, CategoryID: f.exam, SubjectID: f.math, Assessment: "UTS", Value: 75},
	} {
		_, err := s.RecordScore(ctx, sc)
		require.NoError(t, err)
	}

	ds, err := s.Dataset(ctx)
	require.NoError(t, err)
	rep := report.BuildScoreReport(&ds, report.ScoreQuery{ClassID: f.class7A, SubjectID: f.math})

	require.Len(t, rep.Rows, 2)
	final, ok := rep.Rows[0].Final(f.math)
	require.True(t, ok)
	assert.Equal(t, 79.0, final)
	assert.Equal(t, ds.Revision, rep.Revision)
}
