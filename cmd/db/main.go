package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robalyx/tribunal/cmd/db/commands"
	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/backend/postgres"
	"github.com/robalyx/tribunal/internal/database/migrations"
	"github.com/robalyx/tribunal/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup dependencies
	deps, err := setupDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()

	var allCommands []*cli.Command
	allCommands = append(allCommands, commands.MigrationCommands(deps)...)
	allCommands = append(allCommands, commands.RecordCommands(deps)...)
	allCommands = append(allCommands, commands.WorkerCommands(deps)...)

	app := &cli.Command{
		Name:     "db",
		Usage:    "Record store management tool",
		Commands: allCommands,
	}

	return app.Run(ctx, os.Args)
}

// setupDependencies opens the configured backend without running migrations.
func setupDependencies(ctx context.Context) (*commands.CLIDependencies, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Migrations are run explicitly by this tool
	common := cfg.Common
	common.Storage.AutoMigrate = false

	db, err := database.NewConnection(ctx, &common, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	var migrator *migrate.Migrator
	if pg, ok := db.Backend().(*postgres.Backend); ok {
		migrator = migrate.NewMigrator(pg.DB(), migrations.Migrations)
	}

	return &commands.CLIDependencies{
		Config:   cfg,
		DB:       db,
		Migrator: migrator,
		Logger:   logger,
	}, nil
}
