package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/config"
)

func main() {
	cfg, err := config.NewLogging()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read logging config:", err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger).Start(ctx); err != nil {
		logger.WithError(err).Error("failed to start")
		os.Exit(1)
	}
}
