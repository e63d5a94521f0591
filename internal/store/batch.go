package store

import (
	"context"
	"fmt"

	"github.com/roach88/gradebook/internal/model"
)

// Batch collects whole-document writes and commits them with one PutAll, so
// cascades that touch several collections land together or not at all.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	backend Backend
	docs    map[string][]byte
	err     error
}

// Batch starts an empty batch on the records' backend.
func (r *Records) Batch() *Batch {
	return &Batch{backend: r.backend, docs: make(map[string][]byte)}
}

// Stage queues items as the new contents of c. The first marshal error is
// kept and returned by Commit.
func Stage[T any](b *Batch, c Collection[T], items []T) {
	b.stage(c.Key(), nonNil(items))
}

// StageAssessments queues m as the new assessment-name mapping.
func (b *Batch) StageAssessments(m model.AssessmentMap) {
	b.stage(KeyAssessments, nonNilMap(m))
}

func (b *Batch) stage(key string, v any) {
	if b.err != nil {
		return
	}
	data, err := marshalDoc(v)
	if err != nil {
		b.err = fmt.Errorf("stage %s: %w", key, err)
		return
	}
	b.docs[key] = data
}

// Commit writes every staged document atomically. An empty batch writes
// nothing.
func (b *Batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.docs) == 0 {
		return nil
	}
	if err := b.backend.PutAll(ctx, b.docs); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}
