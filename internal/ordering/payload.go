// Package ordering persists manual reorder operations to a remote store:
// bursts of reorder events are debounced per logical list, only the latest
// full order is sent, and transient failures are retried with exponential
// backoff. The in-memory list the user sees is updated before any of this
// runs and is never rolled back here.
package ordering

import (
	"context"

	"github.com/google/uuid"
)

// SortUpdate is one task's new 0-based position in its list.
type SortUpdate struct {
	TaskID    uuid.UUID `json:"taskId"`
	SortOrder int       `json:"sortOrder"`
}

// Payload is the unit of work handed to a transport: one complete,
// internally consistent list order. Superseded payloads for the same context
// are discarded, never merged.
type Payload struct {
	Context string       `json:"context"`
	Updates []SortUpdate `json:"updates"`
}

// SaveResult reports what the remote store applied.
type SaveResult struct {
	UpdatedCount int `json:"updatedCount"`
}

// SaveFunc performs one batch write. Timeouts are the transport's
// responsibility; the writer treats any error uniformly regardless of cause.
type SaveFunc func(ctx context.Context, payload Payload) (SaveResult, error)

// ErrorSink is invoked once with the context key and the final error when the
// retry cap is exhausted. User-facing recovery is the caller's job.
type ErrorSink func(contextKey string, err error)

// NewPayload builds a payload from an ordered id list, assigning 0-based
// sort orders by position.
func NewPayload(contextKey string, orderedTaskIDs []uuid.UUID) Payload {
	updates := make([]SortUpdate, len(orderedTaskIDs))
	for i, id := range orderedTaskIDs {
		updates[i] = SortUpdate{TaskID: id, SortOrder: i}
	}
	return Payload{Context: contextKey, Updates: updates}
}
