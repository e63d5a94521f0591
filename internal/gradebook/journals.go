package gradebook

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/gradebook/internal/model"
)

func normalizeJournal(j *model.JournalEntry) {
	j.Material = model.Normalize(j.Material)
	j.Method = model.Normalize(j.Method)
	j.Notes = model.Normalize(j.Notes)
}

// AddJournal stores a teaching journal entry for a class and subject.
func (s *Service) AddJournal(ctx context.Context, j model.JournalEntry) (model.JournalEntry, error) {
	normalizeJournal(&j)
	if err := model.Validate("journal", j); err != nil {
		return model.JournalEntry{}, err
	}
	j.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Journals, func(items []model.JournalEntry) ([]model.JournalEntry, error) {
		if err := s.checkClassSubject(ctx, j.ClassID, j.SubjectID); err != nil {
			return nil, err
		}
		return append(items, j), nil
	})
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("add journal: %w", err)
	}
	slog.Debug("journal added", "id", j.ID, "date", j.Date)
	return j, nil
}

// UpdateJournal overwrites the entry with j.ID.
func (s *Service) UpdateJournal(ctx context.Context, j model.JournalEntry) (model.JournalEntry, error) {
	normalizeJournal(&j)
	if err := model.Validate("journal", j); err != nil {
		return model.JournalEntry{}, err
	}
	err := mutate(ctx, s, s.records.Journals, func(items []model.JournalEntry) ([]model.JournalEntry, error) {
		if err := s.checkClassSubject(ctx, j.ClassID, j.SubjectID); err != nil {
			return nil, err
		}
		return replaceByID(items, "journal", j.ID, j, journalIDOf)
	})
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("update journal: %w", err)
	}
	return j, nil
}

// DeleteJournal removes one entry by ID.
func (s *Service) DeleteJournal(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Journals, func(items []model.JournalEntry) ([]model.JournalEntry, error) {
		return removeByID(items, "journal", id, journalIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	return nil
}

// JournalFilter narrows ListJournals. Empty fields match everything.
type JournalFilter struct {
	ClassID   string
	SubjectID string
}

// ListJournals returns matching entries, newest date first. Entries on the
// same date keep stored order.
func (s *Service) ListJournals(ctx context.Context, f JournalFilter) ([]model.JournalEntry, error) {
	items, err := s.records.Journals.Load(ctx)
	if err != nil {
		return nil, err
	}
	items = slices.DeleteFunc(items, func(j model.JournalEntry) bool {
		return (f.ClassID != "" && j.ClassID != f.ClassID) ||
			(f.SubjectID != "" && j.SubjectID != f.SubjectID)
	})
	slices.SortStableFunc(items, func(a, b model.JournalEntry) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return items, nil
}

func (s *Service) checkClassSubject(ctx context.Context, classID, subjectID string) error {
	if err := mustExist(ctx, s.records.Classes, "class", classID, classIDOf); err != nil {
		return err
	}
	return mustExist(ctx, s.records.Subjects, "subject", subjectID, subjectIDOf)
}
