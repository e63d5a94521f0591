// Package ids assigns opaque entity identifiers.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique within a collection and
// never reused.
type Generator interface {
	NewID() string
}

// UUIDv7 generates time-sortable UUIDv7 identifiers.
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// NewID creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sequence returns "<prefix>-1", "<prefix>-2", ... for tests and seed data.
//
// Thread-safety: Sequence is safe for concurrent use via internal mutex.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a sequence generator. An empty prefix becomes "id".
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "id"
	}
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
