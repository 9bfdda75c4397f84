package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/prioritization/application/services"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// PlanTodayQuery asks for today's plan: the top task plus up to two
// follow-ups. Routing carries the user's triage decisions, keyed by task id.
type PlanTodayQuery struct {
	UserID  uuid.UUID
	Routing map[uuid.UUID]services.Route
	Now     time.Time
}

// PlanTodayResult holds the ranked plan.
type PlanTodayResult struct {
	Plan services.TodayPlan
}

// PlanTodayHandler loads a user's tasks and builds the day plan.
type PlanTodayHandler struct {
	repo   task.Repository
	engine *services.ScoringEngine
}

// NewPlanTodayHandler creates a new handler.
func NewPlanTodayHandler(repo task.Repository, engine *services.ScoringEngine) *PlanTodayHandler {
	if engine == nil {
		engine = services.NewScoringEngine(services.DefaultScoringConfig())
	}
	return &PlanTodayHandler{repo: repo, engine: engine}
}

// Handle executes the query.
func (h *PlanTodayHandler) Handle(ctx context.Context, query PlanTodayQuery) (*PlanTodayResult, error) {
	tasks, err := h.repo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	plan := h.engine.SuggestTodayPlan(tasks, query.Routing, now)
	return &PlanTodayResult{Plan: plan}, nil
}
