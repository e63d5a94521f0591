package gradebook

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/gradebook/internal/model"
)

// AddSchedule stores a weekly timetable slot. StartTime must be before
// EndTime; both use the HH:mm layout.
func (s *Service) AddSchedule(ctx context.Context, sch model.Schedule) (model.Schedule, error) {
	sch.Day = model.Normalize(sch.Day)
	if err := model.Validate("schedule", sch); err != nil {
		return model.Schedule{}, err
	}
	if sch.StartTime >= sch.EndTime {
		return model.Schedule{}, invalid("schedule", "endTime", "endTime must be after startTime")
	}
	sch.ID = s.ids.NewID()

	err := mutate(ctx, s, s.records.Schedules, func(items []model.Schedule) ([]model.Schedule, error) {
		if err := s.checkClassSubject(ctx, sch.ClassID, sch.SubjectID); err != nil {
			return nil, err
		}
		return append(items, sch), nil
	})
	if err != nil {
		return model.Schedule{}, fmt.Errorf("add schedule: %w", err)
	}
	slog.Debug("schedule added", "id", sch.ID, "day", sch.Day, "start", sch.StartTime)
	return sch, nil
}

// DeleteSchedule removes one slot by ID.
func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	err := mutate(ctx, s, s.records.Schedules, func(items []model.Schedule) ([]model.Schedule, error) {
		return removeByID(items, "schedule", id, scheduleIDOf)
	})
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// DaySchedule is one day of the weekly timetable.
type DaySchedule struct {
	Day   string           `json:"day"`
	Slots []model.Schedule `json:"slots"`
}

// WeeklySchedule groups the slots of classID by day in week order, each day
// sorted by start time. An empty classID includes every class. Days without
// slots are omitted.
func (s *Service) WeeklySchedule(ctx context.Context, classID string) ([]DaySchedule, error) {
	items, err := s.records.Schedules.Load(ctx)
	if err != nil {
		return nil, err
	}

	var week []DaySchedule
	for _, day := range model.Weekdays {
		var slots []model.Schedule
		for _, sch := range items {
			if sch.Day == day && (classID == "" || sch.ClassID == classID) {
				slots = append(slots, sch)
			}
		}
		if len(slots) == 0 {
			continue
		}
		slices.SortStableFunc(slots, func(a, b model.Schedule) int {
			return strings.Compare(a.StartTime, b.StartTime)
		})
		week = append(week, DaySchedule{Day: day, Slots: slots})
	}
	return week, nil
}
