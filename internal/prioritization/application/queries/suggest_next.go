// Package queries contains the read-side handlers for suggestions.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/prioritization/application/services"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// SuggestNextQuery asks for the single best task to do next.
type SuggestNextQuery struct {
	UserID uuid.UUID
	Energy task.EnergyLevel
	Now    time.Time
}

// SuggestNextResult holds the suggestion, if any.
type SuggestNextResult struct {
	TaskID *uuid.UUID
	Task   *task.Task
}

// SuggestNextHandler loads a user's tasks and ranks the inbox candidates.
type SuggestNextHandler struct {
	repo   task.Repository
	engine *services.ScoringEngine
}

// NewSuggestNextHandler creates a new handler.
func NewSuggestNextHandler(repo task.Repository, engine *services.ScoringEngine) *SuggestNextHandler {
	if engine == nil {
		engine = services.NewScoringEngine(services.DefaultScoringConfig())
	}
	return &SuggestNextHandler{repo: repo, engine: engine}
}

// Handle executes the query. A result with a nil TaskID means there is
// nothing to suggest.
func (h *SuggestNextHandler) Handle(ctx context.Context, query SuggestNextQuery) (*SuggestNextResult, error) {
	tasks, err := h.repo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	id, ok := h.engine.PickSuggestedNext(tasks, query.Energy, now)
	if !ok {
		return &SuggestNextResult{}, nil
	}

	result := &SuggestNextResult{TaskID: &id}
	for i := range tasks {
		if tasks[i].ID == id {
			result.Task = &tasks[i]
			break
		}
	}
	return result, nil
}
