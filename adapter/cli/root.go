// Package cli contains the cobra commands for the voxplan binary.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
	app     *App
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

var currentCommand commandContext

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxplan",
	Short: "Voxplan - task prioritization and ordering engine",
	Long: `Voxplan ranks captured tasks so you always know what to do next:
it classifies time urgency, scores candidates for "next" and "today",
and persists manual reorders safely under rapid dragging.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		currentCommand = commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", currentCommand.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", currentCommand.correlationID.String(),
			"duration_ms", time.Since(currentCommand.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetApp sets the CLI application dependencies.
func SetApp(a *App) {
	app = a
}

// GetApp returns the CLI application dependencies.
func GetApp() *App {
	return app
}
