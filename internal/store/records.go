package store

import (
	"context"
	"fmt"

	"github.com/roach88/gradebook/internal/model"
)

// Collection keys. Backups and seeds use the same names.
const (
	KeyClasses     = "classes"
	KeyStudents    = "students"
	KeySubjects    = "subjects"
	KeyCategories  = "categories"
	KeyWeights     = "weights"
	KeyScores      = "scores"
	KeyAssessments = "assessments"
	KeyAttendance  = "attendance"
	KeyJournals    = "journals"
	KeySchedules   = "schedules"
)

// AllKeys lists every collection key in export order.
var AllKeys = []string{
	KeyClasses, KeyStudents, KeySubjects, KeyCategories, KeyWeights,
	KeyScores, KeyAssessments, KeyAttendance, KeyJournals, KeySchedules,
}

// Records gives typed access to every gradebook collection.
type Records struct {
	backend Backend

	Classes    Collection[model.Class]
	Students   Collection[model.Student]
	Subjects   Collection[model.Subject]
	Categories Collection[model.Category]
	Weights    Collection[model.Weight]
	Scores     Collection[model.Score]
	Attendance Collection[model.AttendanceRecord]
	Journals   Collection[model.JournalEntry]
	Schedules  Collection[model.Schedule]
}

// NewRecords wraps backend.
func NewRecords(backend Backend) *Records {
	return &Records{
		backend:    backend,
		Classes:    NewCollection[model.Class](backend, KeyClasses),
		Students:   NewCollection[model.Student](backend, KeyStudents),
		Subjects:   NewCollection[model.Subject](backend, KeySubjects),
		Categories: NewCollection[model.Category](backend, KeyCategories),
		Weights:    NewCollection[model.Weight](backend, KeyWeights),
		Scores:     NewCollection[model.Score](backend, KeyScores),
		Attendance: NewCollection[model.AttendanceRecord](backend, KeyAttendance),
		Journals:   NewCollection[model.JournalEntry](backend, KeyJournals),
		Schedules:  NewCollection[model.Schedule](backend, KeySchedules),
	}
}

// Backend returns the underlying backend.
func (r *Records) Backend() Backend { return r.backend }

// LoadAssessments returns the assessment-name mapping (empty if missing).
func (r *Records) LoadAssessments(ctx context.Context) (model.AssessmentMap, error) {
	data, err := r.backend.Get(ctx, KeyAssessments)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyAssessments, err)
	}
	m := model.AssessmentMap{}
	if err := unmarshalDoc(data, &m); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyAssessments, err)
	}
	if m == nil {
		m = model.AssessmentMap{}
	}
	return m, nil
}

// SaveAssessments overwrites the assessment-name mapping.
func (r *Records) SaveAssessments(ctx context.Context, m model.AssessmentMap) error {
	if m == nil {
		m = model.AssessmentMap{}
	}
	data, err := marshalDoc(m)
	if err != nil {
		return fmt.Errorf("save %s: %w", KeyAssessments, err)
	}
	if err := r.backend.Put(ctx, KeyAssessments, data); err != nil {
		return fmt.Errorf("save %s: %w", KeyAssessments, err)
	}
	return nil
}

// Load reads every collection fresh from the backend.
func (r *Records) Load(ctx context.Context) (model.Dataset, error) {
	var ds model.Dataset
	var err error

	// Read the revision first: a write racing the loads below can only make
	// the dataset newer than its recorded revision, never older.
	if ds.Revision, err = r.backend.Revision(ctx); err != nil {
		return ds, fmt.Errorf("load dataset: %w", err)
	}
	if ds.Classes, err = r.Classes.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Students, err = r.Students.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Subjects, err = r.Subjects.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Categories, err = r.Categories.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Weights, err = r.Weights.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Scores, err = r.Scores.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Assessments, err = r.LoadAssessments(ctx); err != nil {
		return ds, err
	}
	if ds.Attendance, err = r.Attendance.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Journals, err = r.Journals.Load(ctx); err != nil {
		return ds, err
	}
	if ds.Schedules, err = r.Schedules.Load(ctx); err != nil {
		return ds, err
	}
	return ds, nil
}

// Replace overwrites every collection with the contents of ds in one atomic
// write. Nil collections are stored as empty.
func (r *Records) Replace(ctx context.Context, ds model.Dataset) error {
	b := r.Batch()
	Stage(b, r.Classes, ds.Classes)
	Stage(b, r.Students, ds.Students)
	Stage(b, r.Subjects, ds.Subjects)
	Stage(b, r.Categories, ds.Categories)
	Stage(b, r.Weights, ds.Weights)
	Stage(b, r.Scores, ds.Scores)
	b.StageAssessments(ds.Assessments)
	Stage(b, r.Attendance, ds.Attendance)
	Stage(b, r.Journals, ds.Journals)
	Stage(b, r.Schedules, ds.Schedules)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// Reset deletes every collection.
func (r *Records) Reset(ctx context.Context) error {
	if err := r.backend.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func nonNilMap(m model.AssessmentMap) model.AssessmentMap {
	if m == nil {
		return model.AssessmentMap{}
	}
	return m
}
