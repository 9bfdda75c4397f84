package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxplan/voxplan/internal/prioritization/application/queries"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest today's plan: the top task plus two follow-ups",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.PlanTodayHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		result, err := app.PlanTodayHandler.Handle(cmd.Context(), queries.PlanTodayQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to build today's plan: %w", err)
		}

		if result.Plan.NextTaskID == nil {
			fmt.Println("No candidates for today.")
			return nil
		}

		fmt.Printf("Next: %s\n", result.Plan.NextTaskID)
		for i, id := range result.Plan.TodayTaskIDs {
			fmt.Printf("Then %d: %s\n", i+1, id)
		}
		return nil
	},
}

func init() {
	AddCommand(planCmd)
}
