package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/voxplan/voxplan/internal/prioritization/application/commands"
)

var reorderContext string

var reorderCmd = &cobra.Command{
	Use:   "reorder [task-id...]",
	Short: "Apply a manual reorder of a task list",
	Long: `Reorder takes the full list of task ids in their new order
(first = highest). Priorities are redistributed immediately; the sort
order is persisted in the background.

Examples:
  voxplan reorder 4f2c... 91ab... 07de...
  voxplan reorder --context inbox 4f2c... 91ab...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ReorderTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid task id %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		result, err := app.ReorderTasksHandler.Handle(cmd.Context(), commands.ReorderTasksCommand{
			UserID:         app.CurrentUserID,
			Context:        reorderContext,
			OrderedTaskIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("failed to reorder tasks: %w", err)
		}

		fmt.Printf("Reordered %d tasks:\n", len(ids))
		for _, id := range ids {
			fmt.Printf("  %s -> priority %d\n", id, result.Priorities[id])
		}
		return nil
	},
}

func init() {
	reorderCmd.Flags().StringVar(&reorderContext, "context", "inbox", "logical list being reordered")
	AddCommand(reorderCmd)
}
