package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Backend. It is safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
	rev  int64
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Get returns a copy of the document stored under key, or nil.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(doc), nil
}

// Put overwrites the document stored under key.
func (m *Memory) Put(ctx context.Context, key string, doc []byte) error {
	return m.PutAll(ctx, map[string][]byte{key: doc})
}

// PutAll replaces every given document.
func (m *Memory) PutAll(_ context.Context, docs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, doc := range docs {
		m.docs[k] = slices.Clone(doc)
	}
	m.rev++
	return nil
}

// Delete removes the given keys.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.docs, k)
	}
	m.rev++
	return nil
}

// Keys lists the stored keys in sorted order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Revision returns the number of writes applied so far.
func (m *Memory) Revision(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rev, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
