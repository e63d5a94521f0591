package gradebook

import (
	"context"
	"fmt"
	"log/slog"
)

// Stats counts the records in each collection.
type Stats struct {
	Classes     int   `json:"classes"`
	Students    int   `json:"students"`
	Subjects    int   `json:"subjects"`
	Categories  int   `json:"categories"`
	Weights     int   `json:"weights"`
	Scores      int   `json:"scores"`
	Assessments int   `json:"assessments"` // registered names across all pairs
	Attendance  int   `json:"attendance"`
	Journals    int   `json:"journals"`
	Schedules   int   `json:"schedules"`
	Revision    int64 `json:"revision"`
}

// Stats reads the current record counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Classes:    len(ds.Classes),
		Students:   len(ds.Students),
		Subjects:   len(ds.Subjects),
		Categories: len(ds.Categories),
		Weights:    len(ds.Weights),
		Scores:     len(ds.Scores),
		Attendance: len(ds.Attendance),
		Journals:   len(ds.Journals),
		Schedules:  len(ds.Schedules),
		Revision:   ds.Revision,
	}
	for _, bySubject := range ds.Assessments {
		for _, names := range bySubject {
			st.Assessments += len(names)
		}
	}
	return st, nil
}

// Reset deletes every collection.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.records.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	slog.Info("gradebook reset")
	return nil
}
