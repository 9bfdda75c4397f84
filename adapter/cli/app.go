package cli

import (
	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/prioritization/application/commands"
	"github.com/voxplan/voxplan/internal/prioritization/application/queries"
	"github.com/voxplan/voxplan/internal/prioritization/infrastructure/persistence"
)

// App holds the CLI application dependencies.
type App struct {
	SuggestNextHandler  *queries.SuggestNextHandler
	PlanTodayHandler    *queries.PlanTodayHandler
	ReorderTasksHandler *commands.ReorderTasksHandler

	// SQLiteRepo is set when the local store is in use; the add command
	// needs write access to seed tasks.
	SQLiteRepo *persistence.SQLiteTaskRepository

	CurrentUserID uuid.UUID
}

// NewApp creates the CLI application with its handlers.
func NewApp(
	suggestNext *queries.SuggestNextHandler,
	planToday *queries.PlanTodayHandler,
	reorderTasks *commands.ReorderTasksHandler,
) *App {
	return &App{
		SuggestNextHandler:  suggestNext,
		PlanTodayHandler:    planToday,
		ReorderTasksHandler: reorderTasks,
	}
}

// SetCurrentUserID sets the acting user.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}
