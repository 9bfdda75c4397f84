package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxplan/voxplan/internal/prioritization/application/queries"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
	"github.com/voxplan/voxplan/internal/prioritization/domain/urgency"
)

var suggestEnergy string

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the single best task to do next",
	Long: `Suggest ranks your inbox tasks and prints the one to do next.

Examples:
  voxplan suggest
  voxplan suggest --energy low`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestNextHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		energy, err := task.ParseEnergyLevel(suggestEnergy)
		if err != nil {
			return fmt.Errorf("invalid energy level (use low, medium, high): %w", err)
		}

		result, err := app.SuggestNextHandler.Handle(cmd.Context(), queries.SuggestNextQuery{
			UserID: app.CurrentUserID,
			Energy: energy,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest next task: %w", err)
		}

		if result.TaskID == nil {
			fmt.Println("Nothing to suggest - inbox is empty.")
			return nil
		}

		fmt.Printf("Next: %s\n", result.TaskID)
		if result.Task != nil {
			fmt.Printf("  title: %s\n", result.Task.Title)
			fmt.Printf("  priority: %d\n", result.Task.Priority)
			if u := urgency.Classify(*result.Task, time.Now()); u.Label != "" {
				fmt.Printf("  urgency: %s\n", u.Label)
			}
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestEnergy, "energy", "e", "", "current energy level (low, medium, high)")
	AddCommand(suggestCmd)
}
