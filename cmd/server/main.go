// Package main implements the entry point for the Cortex API server,
// which tracks users' cognitive metrics: skill values, recovery decay,
// daily snapshots and the composite cognitive index.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/lunafield/cortex-api/internal/config"
	"github.com/lunafield/cortex-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run loads configuration, wires the application and starts the HTTP
// server. When migrateCmd is non-empty it runs that migration command
// and returns without starting the server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				appLogger.Error("failed to close database", "error", closeErr)
			}
		}()
		return runMigrationCommand(db, migrateCmd, appLogger)
	}

	// The server always brings the schema up to date before serving.
	if err := migrateUp(db, appLogger); err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
