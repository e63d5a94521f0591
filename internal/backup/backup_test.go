package backup

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
	"github.com/roach88/gradebook/internal/testutil"
)

var exportTime = time.Date(2024, 7, 15, 9, 5, 3, 0, time.UTC)

func TestExport_Golden(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(store.NewMemory())
	require.NoError(t, records.Replace(ctx, model.Dataset{
		Classes:     []model.Class{{ID: "c1", Name: "7A", Teacher: "Bu Sari"}},
		Students:    []model.Student{{ID: "s1", Name: "Ayu", StudentNumber: "1001", ClassID: "c1"}},
		Categories:  []model.Category{{ID: "k1", Name: "Daily"}},
		Weights:     []model.Weight{{ID: "w1", CategoryID: "k1", Percentage: 100}},
		Scores:      []model.Score{{ID: "sc1", StudentID: "s1", CategoryID: "k1", SubjectID: "m1", Assessment: "Quiz 1", Value: 80}},
		Assessments: model.AssessmentMap{"k1": {"m1": {"Quiz 1"}}},
	}))

	data, err := Export(ctx, records, exportTime)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "export_small", data)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := store.NewRecords(store.NewMemory())
	ds := testutil.GradebookDataset()
	require.NoError(t, src.Replace(ctx, ds))

	data, err := Export(ctx, src, exportTime)
	require.NoError(t, err)

	dst := store.NewRecords(store.NewMemory())
	res, err := Import(ctx, dst, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Classes)
	assert.Equal(t, 6, res.Scores)
	assert.Empty(t, res.Kept)

	got, err := dst.Load(ctx)
	require.NoError(t, err)
	got.Revision = ds.Revision
	assert.Equal(t, ds.Classes, got.Classes)
	assert.Equal(t, ds.Students, got.Students)
	assert.Equal(t, ds.Scores, got.Scores)
	assert.Equal(t, ds.Assessments, got.Assessments)
	assert.Equal(t, ds.Attendance, got.Attendance)
}

func TestImport_MissingRequiredArrayLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(store.NewMemory())
	require.NoError(t, records.Classes.Save(ctx, []model.Class{{ID: "keep", Name: "Keep"}}))

	tests := []struct {
		name string
		doc  string
	}{
		{"missing scores", `{"classes": [], "students": [], "categories": [], "weights": []}`},
		{"classes not an array", `{"classes": {}, "students": [], "categories": [], "weights": [], "scores": []}`},
		{"not json", `classes: []`},
		{"score without id", `{"classes": [], "students": [], "categories": [], "weights": [], "scores": [{"studentId": "s"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(ctx, records, []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, IsInvalidDocument(err))

			classes, err := records.Classes.Load(ctx)
			require.NoError(t, err)
			require.Len(t, classes, 1)
			assert.Equal(t, "keep", classes[0].ID)
		})
	}
}

func TestImport_MissingKeyIsNamed(t *testing.T) {
	err := CheckDocument([]byte(`{"classes": [], "students": [], "categories": [], "weights": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores")
}

func TestImport_LegacyDocumentKeepsOptionalCollections(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(store.NewMemory())
	ds := testutil.GradebookDataset()
	require.NoError(t, records.Replace(ctx, ds))

	legacy := `{
  "classes": [{"id": "c9", "name": "9A"}],
  "students": [],
  "categories": [],
  "weights": [],
  "scores": [],
  "exportDate": "2024-01-01T00:00:00.000Z",
  "version": "1.0.0"
}`
	res, err := Import(ctx, records, []byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, []string{store.KeyAssessments, store.KeyAttendance, store.KeyJournals, store.KeySchedules}, res.Kept)

	got, err := records.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Class{{ID: "c9", Name: "9A"}}, got.Classes)
	assert.Empty(t, got.Subjects, "subjects are replaced even when absent")
	assert.Equal(t, ds.Attendance, got.Attendance)
	assert.Equal(t, ds.Assessments, got.Assessments)
}

func TestImport_LenientScoreValues(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(store.NewMemory())

	doc := `{
  "classes": [], "students": [], "categories": [], "weights": [],
  "scores": [
    {"id": "a", "studentId": "s", "categoryId": "k", "subjectId": "m", "assessmentName": "Q1", "value": "85"},
    {"id": "b", "studentId": "s", "categoryId": "k", "subjectId": "m", "assessmentName": "Q2", "value": "abc"},
    {"id": "c", "studentId": "s", "categoryId": "k", "subjectId": "m", "assessmentName": "Q3", "value": null}
  ]
}`
	_, err := Import(ctx, records, []byte(doc))
	require.NoError(t, err)

	scores, err := records.Scores.Load(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, 85.0, scores[0].Value.Float())
	assert.True(t, math.IsNaN(scores[1].Value.Float()))
	assert.True(t, math.IsNaN(scores[2].Value.Float()))
}

func TestImport_IsOneWrite(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	records := store.NewRecords(backend)

	data, err := json.Marshal(map[string]any{
		"classes": []any{}, "students": []any{}, "categories": []any{}, "weights": []any{}, "scores": []any{},
	})
	require.NoError(t, err)

	before, _ := backend.Revision(ctx)
	_, err = Import(ctx, records, data)
	require.NoError(t, err)
	after, _ := backend.Revision(ctx)
	assert.Equal(t, before+1, after)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "gradebook_backup_2024-07-15.json", FileName(exportTime))
}
