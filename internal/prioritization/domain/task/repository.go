package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

// SortUpdate assigns a new manual list position to a task.
type SortUpdate struct {
	TaskID    uuid.UUID
	SortOrder int
}

// Repository defines the persistence operations the engine needs. The wider
// task lifecycle (create, complete, archive) belongs to the surrounding
// application and is not part of this boundary.
type Repository interface {
	// FindByUser returns all tasks for a user, in sort order.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Task, error)

	// UpdatePriorities writes the 1..4 priority band for each task.
	UpdatePriorities(ctx context.Context, userID uuid.UUID, priorities map[uuid.UUID]int) error

	// UpdateSortOrders writes new manual list positions.
	UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []SortUpdate) (int, error)
}
