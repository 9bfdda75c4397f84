// Package task defines the task value model the prioritization engine reads.
// Tasks are owned by the surrounding application; the engine treats every Task
// as an immutable value per call and never mutates one.
package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingID = errors.New("task id is required")
)

// DefaultDurationMinutes is assumed when a task carries no estimate.
const DefaultDurationMinutes = 30

// Task is the engine's read-only view of a task.
type Task struct {
	ID              uuid.UUID
	Title           string
	Priority        int // 1..4, 4 = highest
	ScheduledDate   *time.Time
	ScheduledTime   *TimeOfDay
	DurationMinutes int
	Impact          Impact
	Effort          Effort
	Status          Status
	CreatedAt       time.Time
	SortOrder       int
}

// Duration returns the estimated duration in minutes, falling back to the
// default when the task has no estimate.
func (t Task) Duration() int {
	if t.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return t.DurationMinutes
}

// DueAt composes the scheduled date and time into a due instant. An all-day
// task without a time is due at DefaultDueTime, not at midnight. Returns nil
// when the task has no scheduled date.
func (t Task) DueAt() *time.Time {
	if t.ScheduledDate == nil {
		return nil
	}
	tod := DefaultDueTime
	if t.ScheduledTime != nil {
		tod = *t.ScheduledTime
	}
	due := tod.On(*t.ScheduledDate)
	return &due
}

// FullyScheduled reports whether both the date and the time are set.
func (t Task) FullyScheduled() bool {
	return t.ScheduledDate != nil && t.ScheduledTime != nil
}
