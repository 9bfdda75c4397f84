// Package commands contains the write-side handlers for reordering.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/ordering"
	"github.com/voxplan/voxplan/internal/prioritization/application/services"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
	"github.com/voxplan/voxplan/internal/shared/infrastructure/eventbus"
)

// TasksReorderedKey is the routing key for reorder events.
const TasksReorderedKey = "tasks.reordered"

// ReorderTasksCommand carries a completed drag/move: the full list in its
// new, user-chosen order (index 0 = highest).
type ReorderTasksCommand struct {
	UserID         uuid.UUID
	Context        string
	OrderedTaskIDs []uuid.UUID
}

// ReorderTasksResult reports the synchronously applied priorities.
type ReorderTasksResult struct {
	Priorities map[uuid.UUID]int
}

// tasksReorderedEvent is the published wire form of a reorder.
type tasksReorderedEvent struct {
	UserID     uuid.UUID   `json:"userId"`
	Context    string      `json:"context"`
	TaskIDs    []uuid.UUID `json:"taskIds"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// ReorderTasksHandler applies a manual reorder: priorities are redistributed
// and persisted synchronously, then sort-order persistence is scheduled
// through the debounced order writer. The two channels are deliberately
// decoupled; persistence failure never rolls back the priorities the user
// already sees.
type ReorderTasksHandler struct {
	repo   task.Repository
	writer *ordering.Writer
	bus    eventbus.Publisher
	logger *slog.Logger
}

// NewReorderTasksHandler creates a new handler. bus may be nil when event
// output is disabled.
func NewReorderTasksHandler(repo task.Repository, writer *ordering.Writer, bus eventbus.Publisher, logger *slog.Logger) *ReorderTasksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReorderTasksHandler{repo: repo, writer: writer, bus: bus, logger: logger}
}

// Handle executes the reorder.
func (h *ReorderTasksHandler) Handle(ctx context.Context, cmd ReorderTasksCommand) (*ReorderTasksResult, error) {
	if len(cmd.OrderedTaskIDs) == 0 {
		h.writer.Cancel(cmd.Context)
		return &ReorderTasksResult{Priorities: map[uuid.UUID]int{}}, nil
	}

	tasks, err := h.repo.FindByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	byID := make(map[uuid.UUID]task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	ordered := make([]task.Task, 0, len(cmd.OrderedTaskIDs))
	for _, id := range cmd.OrderedTaskIDs {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
		}
		ordered = append(ordered, t)
	}

	priorities, err := services.Redistribute(ordered)
	if err != nil {
		return nil, err
	}

	if err := h.repo.UpdatePriorities(ctx, cmd.UserID, priorities); err != nil {
		return nil, fmt.Errorf("failed to persist priorities: %w", err)
	}

	h.writer.Schedule(cmd.Context, ordering.NewPayload(cmd.Context, cmd.OrderedTaskIDs))

	h.publishReordered(ctx, cmd)

	return &ReorderTasksResult{Priorities: priorities}, nil
}

// publishReordered emits the domain event. Event delivery is best effort and
// never fails the reorder.
func (h *ReorderTasksHandler) publishReordered(ctx context.Context, cmd ReorderTasksCommand) {
	if h.bus == nil {
		return
	}

	payload, err := json.Marshal(tasksReorderedEvent{
		UserID:     cmd.UserID,
		Context:    cmd.Context,
		TaskIDs:    cmd.OrderedTaskIDs,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to encode reorder event", "error", err)
		return
	}

	if err := h.bus.Publish(ctx, TasksReorderedKey, payload); err != nil {
		h.logger.Warn("failed to publish reorder event",
			"context", cmd.Context,
			"error", err,
		)
	}
}
