package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/gradebook/internal/backup"
	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/ids"
	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/report"
	"github.com/roach88/gradebook/internal/store"
)

// Harness holds the gradebook a scenario runs against.
type Harness struct {
	svc *gradebook.Service
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with sequential IDs.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Apply the seed through the gradebook service
// 3. Apply the steps in order
// 4. Build the score report for report.class and report.subject
// 5. Evaluate assertions
//
// An error is returned when the scenario cannot be run at all; failed
// assertions are recorded in the result.
func Run(scenario *Scenario) (*Result, error) {
	if scenario.Data == nil {
		return nil, fmt.Errorf("scenario %s has no seed data", scenario.Name)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		svc: gradebook.New(store.NewRecords(st), gradebook.WithIDGenerator(ids.NewSequence("id"))),
	}
	ctx := context.Background()

	if _, err := backup.ApplySeed(ctx, h.svc, scenario.Data); err != nil {
		return nil, fmt.Errorf("failed to apply seed: %w", err)
	}
	for i, step := range scenario.Steps {
		if err := h.apply(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	ds, err := h.svc.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read gradebook: %w", err)
	}
	q, err := scoreQuery(&ds, scenario.Report)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Dataset = ds
	result.Scores = report.BuildScoreReport(&ds, q)
	result.Table = report.BuildScoreTable(result.Scores)

	actx := &AssertionContext{Query: scenario.Report, Names: backup.NewNames(&ds)}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	slog.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass)
	return result, nil
}

// scoreQuery resolves the report selection to IDs.
func scoreQuery(ds *model.Dataset, q Query) (report.ScoreQuery, error) {
	names := backup.NewNames(ds)
	classID, err := names.Class(q.Class)
	if err != nil {
		return report.ScoreQuery{}, fmt.Errorf("report: %w", err)
	}
	subjectID, err := subjectOrAll(names, q.Subject)
	if err != nil {
		return report.ScoreQuery{}, fmt.Errorf("report: %w", err)
	}
	return report.ScoreQuery{ClassID: classID, SubjectID: subjectID}, nil
}

func subjectOrAll(names *backup.Names, subject string) (string, error) {
	if subject == "" || subject == report.AllSubjects {
		return report.AllSubjects, nil
	}
	return names.Subject(subject)
}

// apply runs one step against the service. Names are resolved against the
// current state so steps can refer to records renamed by earlier steps.
func (h *Harness) apply(ctx context.Context, step Step) error {
	ds, err := h.svc.Dataset(ctx)
	if err != nil {
		return err
	}
	names := backup.NewNames(&ds)

	switch step.Op {
	case OpRecordScore:
		sc := model.Score{Assessment: step.Assessment, Value: model.Value(*step.Value)}
		if sc.StudentID, err = names.Student(step.Student); err != nil {
			return err
		}
		if sc.CategoryID, err = names.Category(step.Category); err != nil {
			return err
		}
		if sc.SubjectID, err = names.Subject(step.Subject); err != nil {
			return err
		}
		_, err = h.svc.RecordScore(ctx, sc)
		return err

	case OpSetWeight:
		categoryID, err := names.Category(step.Category)
		if err != nil {
			return err
		}
		_, err = h.svc.SetWeight(ctx, categoryID, *step.Weight)
		return err

	case OpDeleteWeight:
		categoryID, err := names.Category(step.Category)
		if err != nil {
			return err
		}
		for _, w := range ds.Weights {
			if w.CategoryID == categoryID {
				if err := h.svc.DeleteWeight(ctx, w.ID); err != nil {
					return err
				}
			}
		}
		return nil

	case OpRenameAssessment, OpDeleteAssessment:
		categoryID, err := names.Category(step.Category)
		if err != nil {
			return err
		}
		subjectID, err := names.Subject(step.Subject)
		if err != nil {
			return err
		}
		if step.Op == OpRenameAssessment {
			_, err = h.svc.RenameAssessment(ctx, categoryID, subjectID, step.Assessment, step.NewName)
		} else {
			_, err = h.svc.DeleteAssessment(ctx, categoryID, subjectID, step.Assessment)
		}
		return err

	case OpDeleteStudent:
		studentID, err := names.Student(step.Student)
		if err != nil {
			return err
		}
		return h.svc.DeleteStudent(ctx, studentID)

	case OpDeleteClass:
		classID, err := names.Class(step.Class)
		if err != nil {
			return err
		}
		return h.svc.DeleteClass(ctx, classID)
	}
	return fmt.Errorf("unknown op %q", step.Op)
}
