package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/roach88/gradebook/internal/model"
)

// AddCategory stores a new grading category.
func (s *Service) AddCategory(ctx context.Context, c model.Category) (model.Category, error) {
	model.NormalizeCategory(&c)
	if err := model.Validate("category", c); err != nil {
		return model.Category{}, err
	}
	c.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Categories, func(items []model.Category) ([]model.Category, error) {
		return append(items, c), nil
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("add category: %w", err)
	}
	slog.Debug("category added", "id", c.ID, "name", c.Name)
	return c, nil
}

// UpdateCategory overwrites the category with c.ID.
func (s *Service) UpdateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	model.NormalizeCategory(&c)
	if err := model.Validate("category", c); err != nil {
		return model.Category{}, err
	}
	err := mutate(ctx, s, s.records.Categories, func(items []model.Category) ([]model.Category, error) {
		return replaceByID(items, "category", c.ID, c, categoryIDOf)
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category. Its weight and scores are kept; reports
// ignore them once the category is gone.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Categories, func(items []model.Category) ([]model.Category, error) {
		return removeByID(items, "category", id, categoryIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ListCategories returns every category in stored order.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.records.Categories.Load(ctx)
}

// SetWeight sets the percentage of categoryID, replacing any weight already
// stored for it. The sum across categories is not enforced; see WeightStatus.
func (s *Service) SetWeight(ctx context.Context, categoryID string, percentage float64) (model.Weight, error) {
	w := model.Weight{CategoryID: categoryID, Percentage: percentage}
	if err := model.Validate("weight", w); err != nil {
		return model.Weight{}, err
	}

	err := mutate(ctx, s, s.records.Weights, func(items []model.Weight) ([]model.Weight, error) {
		if err := mustExist(ctx, s.records.Categories, "category", categoryID, categoryIDOf); err != nil {
			return nil, err
		}
		i := slices.IndexFunc(items, func(x model.Weight) bool { return x.CategoryID == categoryID })
		if i < 0 {
			w.ID = s.ids.NewID()
			return append(items, w), nil
		}
		// Keep the first entry's ID and drop any duplicates left by imports.
		w.ID = items[i].ID
		items[i] = w
		return slices.DeleteFunc(items, func(x model.Weight) bool {
			return x.CategoryID == categoryID && x.ID != w.ID
		}), nil
	})
	if err != nil {
		return model.Weight{}, fmt.Errorf("set weight: %w", err)
	}
	slog.Debug("weight set", "category", categoryID, "weight", percentage)
	return w, nil
}

// DeleteWeight removes one weight by ID.
func (s *Service) DeleteWeight(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Weights, func(items []model.Weight) ([]model.Weight, error) {
		return removeByID(items, "weight", id, weightIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete weight: %w", err)
	}
	return nil
}

// ListWeights returns every weight in stored order.
func (s *Service) ListWeights(ctx context.Context) ([]model.Weight, error) {
	return s.records.Weights.Load(ctx)
}

// WeightStatus summarises the configured weights.
type WeightStatus struct {
	Total    float64 `json:"total"`
	Complete bool    `json:"complete"` // Total is 100
	Message  string  `json:"message,omitempty"`
}

// WeightStatus sums the effective weight of every category. When the same
// category has several weights only the last counts, as in grading.
// A total other than 100 is reported, never rejected.
func (s *Service) WeightStatus(ctx context.Context) (WeightStatus, error) {
	weights, err := s.records.Weights.Load(ctx)
	if err != nil {
		return WeightStatus{}, fmt.Errorf("weight status: %w", err)
	}
	ds := model.Dataset{Weights: weights}

	var st WeightStatus
	for _, w := range ds.WeightTable() {
		st.Total += w
	}
	st.Complete = math.Abs(st.Total-100) < 1e-9
	if !st.Complete {
		st.Message = fmt.Sprintf("weights total %s%%, not 100%%; final grades are scaled to the configured total",
			model.FormatNumber(st.Total))
	}
	return st, nil
}
