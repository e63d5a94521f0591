package gradebook

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/gradebook/internal/ids"
	"github.com/roach88/gradebook/internal/model"
	"github.com/roach88/gradebook/internal/store"
)

// Service applies gradebook operations to a store.
//
// Thread-safety: writes are serialised by an internal mutex. Reads go straight
// to the store and always see the latest committed state.
type Service struct {
	records *store.Records
	ids     ids.Generator

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the default UUIDv7 identifiers.
// Tests use ids.NewSequence for stable output.
func WithIDGenerator(gen ids.Generator) Option {
	return func(s *Service) {
		s.ids = gen
	}
}

// New creates a Service over records.
func New(records *store.Records, opts ...Option) *Service {
	s := &Service{
		records: records,
		ids:     ids.UUIDv7{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns the underlying store.
func (s *Service) Records() *store.Records { return s.records }

// Dataset reads every collection fresh from the store. Reports are built from
// the returned value and never from cached state.
func (s *Service) Dataset(ctx context.Context) (model.Dataset, error) {
	ds, err := s.records.Load(ctx)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return ds, nil
}

// mutate runs a load-modify-save cycle on one collection under the write lock.
func mutate[T any](ctx context.Context, s *Service, c store.Collection[T], fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.Save(ctx, items)
}

// exists reports whether a record with id is stored in c.
func exists[T any](ctx context.Context, c store.Collection[T], id string, idOf func(T) string) (bool, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(v T) bool { return idOf(v) == id }), nil
}

// mustExist returns a NotFoundError unless id names a record in c.
func mustExist[T any](ctx context.Context, c store.Collection[T], entity, id string, idOf func(T) string) error {
	ok, err := exists(ctx, c, id, idOf)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(entity, id)
	}
	return nil
}

// removeByID deletes the first item whose id matches.
func removeByID[T any](items []T, entity, id string, idOf func(T) string) ([]T, error) {
	i := slices.IndexFunc(items, func(v T) bool { return idOf(v) == id })
	if i < 0 {
		return nil, notFound(entity, id)
	}
	return slices.Delete(items, i, i+1), nil
}

// replaceByID overwrites the item whose id matches.
func replaceByID[T any](items []T, entity, id string, v T, idOf func(T) string) ([]T, error) {
	i := slices.IndexFunc(items, func(x T) bool { return idOf(x) == id })
	if i < 0 {
		return nil, notFound(entity, id)
	}
	items[i] = v
	return items, nil
}

func classIDOf(c model.Class) string                 { return c.ID }
func subjectIDOf(s model.Subject) string             { return s.ID }
func studentIDOf(s model.Student) string             { return s.ID }
func categoryIDOf(c model.Category) string           { return c.ID }
func weightIDOf(w model.Weight) string               { return w.ID }
func scoreIDOf(s model.Score) string                 { return s.ID }
func journalIDOf(j model.JournalEntry) string        { return j.ID }
func scheduleIDOf(s model.Schedule) string           { return s.ID }
func attendanceIDOf(a model.AttendanceRecord) string { return a.ID }
