package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
)

// AddClass stores a new class and returns it with its assigned ID.
func (s *Service) AddClass(ctx context.Context, c model.Class) (model.Class, error) {
	model.NormalizeClass(&c)
	if err := model.Validate("class", c); err != nil {
		return model.Class{}, err
	}
	c.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Classes, func(items []model.Class) ([]model.Class, error) {
		return append(items, c), nil
	})
	if err != nil {
		return model.Class{}, fmt.Errorf("add class: %w", err)
	}
	slog.Debug("class added", "id", c.ID, "name", c.Name)
	return c, nil
}

// UpdateClass overwrites the class with c.ID.
func (s *Service) UpdateClass(ctx context.Context, c model.Class) (model.Class, error) {
	model.NormalizeClass(&c)
	if err := model.Validate("class", c); err != nil {
		return model.Class{}, err
	}
	err := mutate(ctx, s, s.records.Classes, func(items []model.Class) ([]model.Class, error) {
		return replaceByID(items, "class", c.ID, c, classIDOf)
	})
	if err != nil {
		return model.Class{}, fmt.Errorf("update class: %w", err)
	}
	return c, nil
}

// DeleteClass removes a class together with every student assigned to it.
// Scores and attendance of those students are left in place.
func (s *Service) DeleteClass(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes, err := s.records.Classes.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	classes, err = removeByID(classes, "class", id, classIDOf)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	students, err := s.records.Students.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	before := len(students)
	students = slices.DeleteFunc(students, func(st model.Student) bool { return st.ClassID == id })

	b := s.records.Batch()
	store.Stage(b, s.records.Classes, classes)
	store.Stage(b, s.records.Students, students)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	slog.Debug("class deleted", "id", id, "students_removed", before-len(students))
	return nil
}

// ListClasses returns every class in stored order.
func (s *Service) ListClasses(ctx context.Context) ([]model.Class, error) {
	return s.records.Classes.Load(ctx)
}

// AddStudent stores a new student. A non-empty ClassID must name an
// existing class.
func (s *Service) AddStudent(ctx context.Context, st model.Student) (model.Student, error) {
	model.NormalizeStudent(&st)
	if err := model.Validate("student", st); err != nil {
		return model.Student{}, err
	}
	st.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Students, func(items []model.Student) ([]model.Student, error) {
		if err := s.checkStudentClass(ctx, st); err != nil {
			return nil, err
		}
		return append(items, st), nil
	})
	if err != nil {
		return model.Student{}, fmt.Errorf("add student: %w", err)
	}
	slog.Debug("student added", "id", st.ID, "class", st.ClassID)
	return st, nil
}

// UpdateStudent overwrites the student with st.ID.
func (s *Service) UpdateStudent(ctx context.Context, st model.Student) (model.Student, error) {
	model.NormalizeStudent(&st)
	if err := model.Validate("student", st); err != nil {
		return model.Student{}, err
	}
	err := mutate(ctx, s, s.records.Students, func(items []model.Student) ([]model.Student, error) {
		if err := s.checkStudentClass(ctx, st); err != nil {
			return nil, err
		}
		return replaceByID(items, "student", st.ID, st, studentIDOf)
	})
	if err != nil {
		return model.Student{}, fmt.Errorf("update student: %w", err)
	}
	return st, nil
}

// DeleteStudent removes one student. Their scores are left in place.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Students, func(items []model.Student) ([]model.Student, error) {
		return removeByID(items, "student", id, studentIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ListStudents returns the students of classID in stored order, or every
// student when classID is empty.
func (s *Service) ListStudents(ctx context.Context, classID string) ([]model.Student, error) {
	students, err := s.records.Students.Load(ctx)
	if err != nil {
		return nil, err
	}
	if classID == "" {
		return students, nil
	}
	return slices.DeleteFunc(students, func(st model.Student) bool { return st.ClassID != classID }), nil
}

func (s *Service) checkStudentClass(ctx context.Context, st model.Student) error {
	if st.ClassID == "" {
		return nil
	}
	return mustExist(ctx, s.records.Classes, "class", st.ClassID, classIDOf)
}
