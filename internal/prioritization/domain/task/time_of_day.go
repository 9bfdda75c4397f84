package task

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("time of day out of range")

// DefaultDueTime is when an all-day task is assumed due: end of a typical
// workday rather than midnight.
var DefaultDueTime = MustNewTimeOfDay(17, 0)

// TimeOfDay is a wall-clock time with minute precision, used for a task's
// optional scheduled time.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay creates a TimeOfDay value object.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// MustNewTimeOfDay creates a TimeOfDay or panics on error.
func MustNewTimeOfDay(hour, minute int) TimeOfDay {
	tod, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return tod
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return t.hour }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return t.minute }

// On anchors the time of day to the given date, in that date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.hour, t.minute, 0, 0, date.Location())
}

// String returns a HH:MM representation.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
