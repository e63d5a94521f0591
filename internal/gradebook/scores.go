package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
)

// AddAssessment registers an assessment name for a (category, subject) pair.
// It returns false when the name was already registered.
func (s *Service) AddAssessment(ctx context.Context, categoryID, subjectID, name string) (bool, error) {
	name = model.Normalize(name)
	if name == "" {
		return false, invalid("assessment", "assessmentName", "assessmentName is a required field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPair(ctx, categoryID, subjectID); err != nil {
		return false, fmt.Errorf("add assessment: %w", err)
	}
	m, err := s.records.LoadAssessments(ctx)
	if err != nil {
		return false, fmt.Errorf("add assessment: %w", err)
	}
	if !m.Add(categoryID, subjectID, name) {
		return false, nil
	}
	if err := s.records.SaveAssessments(ctx, m); err != nil {
		return false, fmt.Errorf("add assessment: %w", err)
	}
	slog.Debug("assessment added", "category", categoryID, "subject", subjectID, "name", name)
	return true, nil
}

// RenameAssessment renames a registered assessment and moves every score
// recorded under the old name.
func (s *Service) RenameAssessment(ctx context.Context, categoryID, subjectID, oldName, newName string) (int, error) {
	newName = model.Normalize(newName)
	if newName == "" {
		return 0, invalid("assessment", "assessmentName", "assessmentName is a required field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.records.LoadAssessments(ctx)
	if err != nil {
		return 0, fmt.Errorf("rename assessment: %w", err)
	}
	if !m.Has(categoryID, subjectID, oldName) {
		return 0, fmt.Errorf("rename assessment: %w", notFound("assessment", oldName))
	}
	if !m.Rename(categoryID, subjectID, oldName, newName) {
		return 0, fmt.Errorf("rename assessment: %w",
			&ConflictError{Entity: "assessment", Message: fmt.Sprintf("%q is already registered", newName)})
	}

	scores, err := s.records.Scores.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("rename assessment: %w", err)
	}
	// Scores can exist under names that were never registered.
	if slices.ContainsFunc(scores, func(sc model.Score) bool {
		return sc.CategoryID == categoryID && sc.SubjectID == subjectID && sc.Assessment == newName
	}) {
		return 0, fmt.Errorf("rename assessment: %w",
			&ConflictError{Entity: "assessment", Message: fmt.Sprintf("scores already recorded under %q", newName)})
	}
	moved := 0
	for i := range scores {
		sc := &scores[i]
		if sc.CategoryID == categoryID && sc.SubjectID == subjectID && sc.Assessment == oldName {
			sc.Assessment = newName
			moved++
		}
	}

	b := s.records.Batch()
	store.Stage(b, s.records.Scores, scores)
	b.StageAssessments(m)
	if err := b.Commit(ctx); err != nil {
		return 0, fmt.Errorf("rename assessment: %w", err)
	}
	slog.Debug("assessment renamed", "from", oldName, "to", newName, "scores", moved)
	return moved, nil
}

// DeleteAssessment unregisters an assessment name and deletes every score
// recorded under it for the pair. It returns the number of scores removed.
func (s *Service) DeleteAssessment(ctx context.Context, categoryID, subjectID, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.records.LoadAssessments(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete assessment: %w", err)
	}
	scores, err := s.records.Scores.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete assessment: %w", err)
	}

	registered := m.Remove(categoryID, subjectID, name)
	before := len(scores)
	scores = slices.DeleteFunc(scores, func(sc model.Score) bool {
		return sc.CategoryID == categoryID && sc.SubjectID == subjectID && sc.Assessment == name
	})
	removed := before - len(scores)
	if !registered && removed == 0 {
		return 0, fmt.Errorf("delete assessment: %w", notFound("assessment", name))
	}

	b := s.records.Batch()
	store.Stage(b, s.records.Scores, scores)
	b.StageAssessments(m)
	if err := b.Commit(ctx); err != nil {
		return 0, fmt.Errorf("delete assessment: %w", err)
	}
	slog.Debug("assessment deleted", "category", categoryID, "subject", subjectID, "name", name, "scores", removed)
	return removed, nil
}

// ListAssessments returns the names registered for the pair in
// registration order.
func (s *Service) ListAssessments(ctx context.Context, categoryID, subjectID string) ([]string, error) {
	m, err := s.records.LoadAssessments(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(m.Names(categoryID, subjectID)), nil
}

// RecordScore stores a score, replacing any score already recorded for the
// same student, category, subject and assessment. The assessment name is
// registered for the pair if it was not already.
func (s *Service) RecordScore(ctx context.Context, sc model.Score) (model.Score, error) {
	sc.Assessment = model.Normalize(sc.Assessment)
	if err := model.Validate("score", sc); err != nil {
		return model.Score{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mustExist(ctx, s.records.Students, "student", sc.StudentID, studentIDOf); err != nil {
		return model.Score{}, fmt.Errorf("record score: %w", err)
	}
	if err := s.checkPair(ctx, sc.CategoryID, sc.SubjectID); err != nil {
		return model.Score{}, fmt.Errorf("record score: %w", err)
	}

	scores, err := s.records.Scores.Load(ctx)
	if err != nil {
		return model.Score{}, fmt.Errorf("record score: %w", err)
	}
	m, err := s.records.LoadAssessments(ctx)
	if err != nil {
		return model.Score{}, fmt.Errorf("record score: %w", err)
	}

	key := sc.Key()
	i := slices.IndexFunc(scores, func(x model.Score) bool { return x.Key() == key })
	if i < 0 {
		sc.ID = s.ids.NewID()
		scores = append(scores, sc)
	} else {
		sc.ID = scores[i].ID
		scores[i] = sc
		scores = slices.DeleteFunc(scores, func(x model.Score) bool {
			return x.Key() == key && x.ID != sc.ID
		})
	}
	m.Add(sc.CategoryID, sc.SubjectID, sc.Assessment)

	b := s.records.Batch()
	store.Stage(b, s.records.Scores, scores)
	b.StageAssessments(m)
	if err := b.Commit(ctx); err != nil {
		return model.Score{}, fmt.Errorf("record score: %w", err)
	}
	slog.Debug("score recorded",
		"student", sc.StudentID,
		"category", sc.CategoryID,
		"subject", sc.SubjectID,
		"assessment", sc.Assessment,
		"value", sc.Value.String(),
		"replaced", i >= 0,
	)
	return sc, nil
}

// DeleteScore removes one score by ID.
func (s *Service) DeleteScore(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Scores, func(items []model.Score) ([]model.Score, error) {
		return removeByID(items, "score", id, scoreIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	return nil
}

// ScoreFilter narrows ListScores. Empty fields match everything.
type ScoreFilter struct {
	ClassID    string
	StudentID  string
	CategoryID string
	SubjectID  string
	Assessment string
}

// ListScores returns the stored scores matching f in stored order.
func (s *Service) ListScores(ctx context.Context, f ScoreFilter) ([]model.Score, error) {
	scores, err := s.records.Scores.Load(ctx)
	if err != nil {
		return nil, err
	}
	var inClass map[string]bool
	if f.ClassID != "" {
		students, err := s.records.Students.Load(ctx)
		if err != nil {
			return nil, err
		}
		inClass = make(map[string]bool)
		for _, st := range students {
			if st.ClassID == f.ClassID {
				inClass[st.ID] = true
			}
		}
	}
	return slices.DeleteFunc(scores, func(sc model.Score) bool {
		switch {
		case inClass != nil && !inClass[sc.StudentID]:
			return true
		case f.StudentID != "" && sc.StudentID != f.StudentID:
			return true
		case f.CategoryID != "" && sc.CategoryID != f.CategoryID:
			return true
		case f.SubjectID != "" && sc.SubjectID != f.SubjectID:
			return true
		case f.Assessment != "" && sc.Assessment != f.Assessment:
			return true
		}
		return false
	}), nil
}

func (s *Service) checkPair(ctx context.Context, categoryID, subjectID string) error {
	if err := mustExist(ctx, s.records.Categories, "category", categoryID, categoryIDOf); err != nil {
		return err
	}
	return mustExist(ctx, s.records.Subjects, "subject", subjectID, subjectIDOf)
}
