package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/testutil"
)

// singleStudentDataset builds one student S in class C with the given scores under
// subject Math, categories Daily and Exam, and the given weights.
func singleStudentDataset(scores []model.Score, weights []model.Weight) *model.Dataset {
	return &model.Dataset{
		Classes:    []model.Class{{ID: "C", Name: "C"}},
		Students:   []model.Student{{ID: "S", Name: "S", ClassID: "C"}},
		Subjects:   []model.Subject{{ID: "math", Name: "Math"}, {ID: "physics", Name: "Physics"}},
		Categories: []model.Category{{ID: "daily", Name: "Daily"}, {ID: "exam", Name: "Exam"}},
		Weights:    weights,
		Scores:     scores,
	}
}

func score(cat, subj, assessment string, v float64) model.Score {
	return model.Score{StudentID: "S", CategoryID: cat, SubjectID: subj, Assessment: assessment, Value: model.Value(v)}
}

func onlyRow(t *testing.T, rep ScoreReport) StudentScores {
	t.Helper()
	require.Len(t, rep.Rows, 1)
	return rep.Rows[0]
}

func TestGrouping_AverageIsRoundedMean(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 80),
		score("daily", "math", "Quiz2", 90),
	}, nil)

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: AllSubjects}))

	avg, ok := row.Average("daily", "math")
	require.True(t, ok)
	assert.Equal(t, 85.0, avg)
}

func TestWeights_FinalCombinesWeightedAverages(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 80),
		score("daily", "math", "Quiz2", 90),
		score("exam", "math", "UTS", 75),
	}, []model.Weight{
		{CategoryID: "daily", Percentage: 40},
		{CategoryID: "exam", Percentage: 60},
	})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))

	final, ok := row.Final("math")
	require.True(t, ok)
	assert.Equal(t, 79.0, final)
	assert.Equal(t, 100.0, row.Finals[0].TotalWeight)
}

func TestWeights_UnweightedCategoryExcluded(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 80),
		score("daily", "math", "Quiz2", 90),
		score("exam", "math", "UTS", 75),
	}, []model.Weight{
		{CategoryID: "daily", Percentage: 40},
	})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))

	final, _ := row.Final("math")
	assert.Equal(t, 85.0, final)
	assert.Equal(t, 40.0, row.Finals[0].TotalWeight)

	// The exam average is still reported for display.
	examAvg, ok := row.Average("exam", "math")
	require.True(t, ok)
	assert.Equal(t, 75.0, examAvg)
}

func TestWeights_SubjectWithoutScoresFinalIsZero(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 80),
	}, []model.Weight{{CategoryID: "daily", Percentage: 100}})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: AllSubjects}))

	final, ok := row.Final("physics")
	require.True(t, ok, "subjects in scope always get a final grade")
	assert.Equal(t, 0.0, final)
	assert.Equal(t, 0.0, row.Finals[1].TotalWeight)
}

func TestGrouping_EmptyGroupIsAbsentNotZero(t *testing.T) {
	ds := singleStudentDataset([]model.Score{score("daily", "math", "Quiz1", 60)}, nil)

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: AllSubjects}))

	_, ok := row.Average("exam", "math")
	assert.False(t, ok)
	_, ok = row.Average("daily", "physics")
	assert.False(t, ok)
	assert.Len(t, row.Averages, 1)
}

func TestGrouping_IgnoresAssessmentNameAndRoundsHalfUp(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 84),
		score("daily", "math", "Quiz2", 85),
		score("daily", "math", "Homework", 85.5),
		score("daily", "math", "Homework 2", 85.5),
	}, nil)

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))

	// mean = 340 / 4 = 85 exactly
	avg, _ := row.Average("daily", "math")
	assert.Equal(t, 85.0, avg)
	assert.Equal(t, 4, row.Averages[0].Count)

	ds = singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 84),
		score("daily", "math", "Quiz2", 85),
	}, nil)
	row = onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))
	avg, _ = row.Average("daily", "math")
	assert.Equal(t, 85.0, avg, "84.5 rounds half up")
}

func TestWeights_RenormalisationUnaffectedByUnweightedCategory(t *testing.T) {
	base := []model.Score{
		score("daily", "math", "Quiz1", 70),
	}
	weights := []model.Weight{{CategoryID: "daily", Percentage: 30}}

	before := onlyRow(t, BuildScoreReport(singleStudentDataset(base, weights), ScoreQuery{ClassID: "C", SubjectID: "math"}))

	withExtra := append(base, score("exam", "math", "UTS", 10))
	after := onlyRow(t, BuildScoreReport(singleStudentDataset(withExtra, weights), ScoreQuery{ClassID: "C", SubjectID: "math"}))

	b, _ := before.Final("math")
	a, _ := after.Final("math")
	assert.Equal(t, 70.0, b)
	assert.Equal(t, b, a)
}

func TestWeights_PresentZeroAverageDragsGradeDown(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 100),
		score("exam", "math", "UTS", 0),
	}, []model.Weight{
		{CategoryID: "daily", Percentage: 50},
		{CategoryID: "exam", Percentage: 50},
	})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))
	final, _ := row.Final("math")
	assert.Equal(t, 50.0, final)
}

func TestWeights_LastWeightForCategoryWins(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 100),
		score("exam", "math", "UTS", 50),
	}, []model.Weight{
		{CategoryID: "daily", Percentage: 90},
		{CategoryID: "exam", Percentage: 50},
		{CategoryID: "daily", Percentage: 50},
	})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))
	final, _ := row.Final("math")
	assert.Equal(t, 75.0, final)
}

func TestWeights_AllZeroFinalIsZero(t *testing.T) {
	ds := singleStudentDataset([]model.Score{score("daily", "math", "Quiz1", 90)},
		[]model.Weight{{CategoryID: "daily", Percentage: 0}})

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))
	final, _ := row.Final("math")
	assert.Equal(t, 0.0, final)
}

func TestFilter_UnknownClassIsEmpty(t *testing.T) {
	ds := testutil.GradebookDataset()
	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "nope", SubjectID: AllSubjects})
	assert.True(t, rep.Empty())
}

func TestFilter_ClasslessStudentsExcluded(t *testing.T) {
	ds := testutil.GradebookDataset()
	ds.Students = append(ds.Students, model.Student{ID: "st-x", Name: "Nobody"})

	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "", SubjectID: AllSubjects})
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "st-x", rep.Rows[0].Student.ID)

	rep = BuildScoreReport(&ds, ScoreQuery{ClassID: "class-7a", SubjectID: AllSubjects})
	for _, row := range rep.Rows {
		assert.NotEqual(t, "st-x", row.Student.ID)
	}
}

func TestFilter_UnknownSubjectYieldsNoGrades(t *testing.T) {
	ds := testutil.GradebookDataset()
	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "class-7a", SubjectID: "subj-art"})

	require.Len(t, rep.Rows, 2)
	assert.Empty(t, rep.Subjects)
	for _, row := range rep.Rows {
		assert.Empty(t, row.Averages)
		assert.Empty(t, row.Finals)
	}
}

func TestFilter_SingleSubject(t *testing.T) {
	ds := testutil.GradebookDataset()
	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "class-7a", SubjectID: "subj-physics"})

	require.Len(t, rep.Subjects, 1)
	budi := rep.Rows[1]
	assert.Equal(t, "Budi", budi.Student.Name)
	final, _ := budi.Final("subj-physics")
	assert.Equal(t, 65.0, final)
	_, ok := budi.Final("subj-math")
	assert.False(t, ok)
}

func TestOrphanedReferencesAreIgnored(t *testing.T) {
	ds := testutil.GradebookDataset()
	// Category Exam deleted; its scores and weight remain.
	ds.Categories = ds.Categories[:1]

	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "class-7a", SubjectID: "subj-math"})
	ayu := rep.Rows[0]
	final, _ := ayu.Final("subj-math")
	assert.Equal(t, 85.0, final, "only Daily contributes once Exam is gone")
}

func TestDuplicateScoresAllContributeToAverage(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", 60),
		score("daily", "math", "Quiz1", 80),
	}, nil)

	row := onlyRow(t, BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: "math"}))
	avg, _ := row.Average("daily", "math")
	assert.Equal(t, 70.0, avg)

	raw, ok := row.Raw("daily", "math", "Quiz1")
	require.True(t, ok)
	assert.Equal(t, 80.0, raw, "display shows the last stored duplicate")
}

func TestNaNAndOutOfRangeValuesDoNotPanic(t *testing.T) {
	ds := singleStudentDataset([]model.Score{
		score("daily", "math", "Quiz1", math.NaN()),
		score("daily", "math", "Quiz2", 90),
		score("exam", "math", "UTS", 150),
		score("daily", "physics", "Quiz1", -20),
	}, []model.Weight{
		{CategoryID: "daily", Percentage: 50},
		{CategoryID: "exam", Percentage: 50},
	})

	var rep ScoreReport
	require.NotPanics(t, func() {
		rep = BuildScoreReport(ds, ScoreQuery{ClassID: "C", SubjectID: AllSubjects})
	})
	row := onlyRow(t, rep)

	avg, ok := row.Average("daily", "math")
	require.True(t, ok)
	assert.True(t, math.IsNaN(avg), "NaN propagates into the group average")

	final, _ := row.Final("math")
	assert.True(t, math.IsNaN(final), "and into the subject's final grade")

	exam, _ := row.Average("exam", "math")
	assert.Equal(t, 150.0, exam)

	physics, _ := row.Final("physics")
	assert.Equal(t, -20.0, physics)
}

func TestIdempotent(t *testing.T) {
	ds := testutil.GradebookDataset()
	q := ScoreQuery{ClassID: "class-7a", SubjectID: AllSubjects}

	first := BuildScoreTable(BuildScoreReport(&ds, q))
	second := BuildScoreTable(BuildScoreReport(&ds, q))
	assert.Equal(t, first, second)
}

func TestAssessmentColumns_RegisteredThenUnregisteredSorted(t *testing.T) {
	ds := testutil.GradebookDataset()
	ds.Scores = append(ds.Scores,
		model.Score{ID: "x1", StudentID: "st-2", CategoryID: "cat-daily", SubjectID: "subj-math", Assessment: "Zeta", Value: 50},
		model.Score{ID: "x2", StudentID: "st-2", CategoryID: "cat-daily", SubjectID: "subj-math", Assessment: "Alpha", Value: 50},
	)

	rep := BuildScoreReport(&ds, ScoreQuery{ClassID: "class-7a", SubjectID: AllSubjects})
	assert.Equal(t, []string{"Quiz 1", "Quiz 2", "Alpha", "Zeta"}, rep.Assessments("cat-daily", "subj-math"))
	assert.Nil(t, rep.Assessments("cat-exam", "subj-physics"))
}
