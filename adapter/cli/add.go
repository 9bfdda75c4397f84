package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

var (
	addPriority int
	addDuration int
	addImpact   string
	addEffort   string
	addDate     string
	addTime     string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task to the local store",
	Long: `Add seeds a task into the local SQLite store. In production tasks
arrive from the capture pipeline; this command exists for local use.

Examples:
  voxplan add "Review PR" --impact high --duration 30
  voxplan add "File taxes" --date 2026-09-15 --time 17:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SQLiteRepo == nil {
			return fmt.Errorf("add requires the local sqlite store")
		}

		impact, err := task.ParseImpact(addImpact)
		if err != nil {
			return fmt.Errorf("invalid impact (use low, medium, high): %w", err)
		}
		effort, err := task.ParseEffort(addEffort)
		if err != nil {
			return fmt.Errorf("invalid effort (use low, medium, high): %w", err)
		}

		t := task.Task{
			ID:              uuid.New(),
			Title:           args[0],
			Priority:        addPriority,
			DurationMinutes: addDuration,
			Impact:          impact,
			Effort:          effort,
			Status:          task.StatusInbox,
			CreatedAt:       time.Now().UTC(),
		}

		if addDate != "" {
			date, err := time.ParseInLocation("2006-01-02", addDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
			t.ScheduledDate = &date
		}
		if addTime != "" {
			var hour, minute int
			if _, err := fmt.Sscanf(addTime, "%d:%d", &hour, &minute); err != nil {
				return fmt.Errorf("invalid time format (use HH:MM): %w", err)
			}
			tod, err := task.NewTimeOfDay(hour, minute)
			if err != nil {
				return fmt.Errorf("invalid time of day: %w", err)
			}
			t.ScheduledTime = &tod
		}

		if err := app.SQLiteRepo.Save(cmd.Context(), app.CurrentUserID, t); err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Printf("Task added: %s\n", t.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 1, "priority band (1-4)")
	addCmd.Flags().IntVarP(&addDuration, "duration", "d", 0, "estimated duration in minutes")
	addCmd.Flags().StringVar(&addImpact, "impact", "", "impact (low, medium, high)")
	addCmd.Flags().StringVar(&addEffort, "effort", "", "effort (low, medium, high)")
	addCmd.Flags().StringVar(&addDate, "date", "", "scheduled date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addTime, "time", "", "scheduled time (HH:MM)")
	AddCommand(addCmd)
}
