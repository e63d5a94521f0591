package store

import (
	"context"
	"fmt"
)

// Collection is typed access to one array-shaped document.
type Collection[T any] struct {
	backend Backend
	key     string
}

// NewCollection binds a collection to key on backend.
func NewCollection[T any](backend Backend, key string) Collection[T] {
	return Collection[T]{backend: backend, key: key}
}

// Key returns the storage key.
func (c Collection[T]) Key() string { return c.key }

// Load returns the stored entities in stored order.
// A missing document yields an empty slice, not an error.
func (c Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	items := []T{}
	if err := unmarshalDoc(data, &items); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save overwrites the whole document with items.
func (c Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := marshalDoc(items)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	if err := c.backend.Put(ctx, c.key, data); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
