package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
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

	url, err := config.DatabaseURL()
	if err != nil {
		logger.WithError(err).Error("failed to read database config")
		os.Exit(1)
	}
	migrator, err := database.Migrate(url)
	if err != nil {
		logger.WithError(err).Error("failed to migrate db")
		os.Exit(1)
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info("no migrations applied")
		return
	}
	if err != nil {
		logger.WithError(err).Error("failed to check migration version")
		os.Exit(1)
	}
	logger.WithField("version", version).WithField("dirty", dirty).Info("migration successful")
}
