package task

import (
	"errors"
	"strings"
)

// Status represents where a task sits in the routing lifecycle. The zero value
// is StatusInbox so a task arriving without a status is treated as inbox.
type Status int

const (
	StatusInbox Status = iota
	StatusNext
	StatusScheduled
	StatusCompleted
	StatusLater
)

var ErrInvalidStatus = errors.New("invalid status value")

var statusNames = map[Status]string{
	StatusInbox:     "inbox",
	StatusNext:      "next",
	StatusScheduled: "scheduled",
	StatusCompleted: "completed",
	StatusLater:     "later",
}

var statusValues = map[string]Status{
	"inbox":     StatusInbox,
	"next":      StatusNext,
	"scheduled": StatusScheduled,
	"completed": StatusCompleted,
	"later":     StatusLater,
}

// ParseStatus creates a Status from a string. The empty string parses to
// StatusInbox, matching how unrouted tasks arrive from the capture pipeline.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusInbox, nil
	}
	status, ok := statusValues[strings.ToLower(s)]
	if !ok {
		return StatusInbox, ErrInvalidStatus
	}
	return status, nil
}

// String returns the string representation of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid returns true if the status is a valid value.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}
