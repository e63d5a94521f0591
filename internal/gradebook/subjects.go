package gradebook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/gradebook/internal/model"
)

// AddSubject stores a new subject.
func (s *Service) AddSubject(ctx context.Context, subj model.Subject) (model.Subject, error) {
	model.NormalizeSubject(&subj)
	if err := model.Validate("subject", subj); err != nil {
		return model.Subject{}, err
	}
	subj.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Subjects, func(items []model.Subject) ([]model.Subject, error) {
		return append(items, subj), nil
	})
	if err != nil {
		return model.Subject{}, fmt.Errorf("add subject: %w", err)
	}
	slog.Debug("subject added", "id", subj.ID, "name", subj.Name)
	return subj, nil
}

// UpdateSubject overwrites the subject with subj.ID.
func (s *Service) UpdateSubject(ctx context.Context, subj model.Subject) (model.Subject, error) {
	model.NormalizeSubject(&subj)
	if err := model.Validate("subject", subj); err != nil {
		return model.Subject{}, err
	}
	err := mutate(ctx, s, s.records.Subjects, func(items []model.Subject) ([]model.Subject, error) {
		return replaceByID(items, "subject", subj.ID, subj, subjectIDOf)
	})
	if err != nil {
		return model.Subject{}, fmt.Errorf("update subject: %w", err)
	}
	return subj, nil
}

// DeleteSubject removes a subject. Scores, attendance and schedules that name
// it are kept.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Subjects, func(items []model.Subject) ([]model.Subject, error) {
		return removeByID(items, "subject", id, subjectIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// ListSubjects returns every subject in stored order.
func (s *Service) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	return s.records.Subjects.Load(ctx)
}
