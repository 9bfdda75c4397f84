package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxplan/voxplan/adapter/cli"
	"github.com/voxplan/voxplan/internal/app"
	"github.com/voxplan/voxplan/pkg/config"
	"github.com/voxplan/voxplan/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := cli.NewApp(
		container.SuggestNextHandler,
		container.PlanTodayHandler,
		container.ReorderTasksHandler,
	)
	cliApp.SetCurrentUserID(container.UserID)
	cliApp.SQLiteRepo = container.SQLiteRepo
	cli.SetApp(cliApp)

	cli.Execute()
}
