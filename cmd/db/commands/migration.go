package commands

import (
	"context"
	"fmt"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// MigrationCommands returns all migration-related commands.
func MigrationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Initialize migration tables",
			Action: withMigrator(deps, handleInit),
		},
		{
			Name:  "migrate",
			Usage: "Run pending migrations",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dry-run",
					Usage: "Mark pending migrations as applied without running them",
				},
			},
			Action: withMigrator(deps, handleMigrate),
		},
		{
			Name:  "rollback",
			Usage: "Rollback the last migration group",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "yes",
					Usage: "Confirm the rollback",
				},
			},
			Action: withMigrator(deps, handleRollback),
		},
		{
			Name:   "status",
			Usage:  "List migrations and whether they are applied",
			Action: withMigrator(deps, handleStatus),
		},
		{
			Name:      "create",
			Usage:     "Create a new Go migration file",
			ArgsUsage: "NAME",
			Action:    withMigrator(deps, handleCreate),
		},
	}
}

// withMigrator rejects migration commands on backends without migrations.
func withMigrator(
	deps *CLIDependencies, handler func(context.Context, *cli.Command, *CLIDependencies) error,
) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if deps.Migrator == nil {
			return ErrMigrationsNeedPostgres
		}
		return handler(ctx, c, deps)
	}
}

func handleInit(ctx context.Context, _ *cli.Command, deps *CLIDependencies) error {
	return deps.Migrator.Init(ctx)
}

func handleMigrate(ctx context.Context, c *cli.Command, deps *CLIDependencies) error {
	if err := deps.Migrator.Init(ctx); err != nil {
		return err
	}

	if err := deps.Migrator.Lock(ctx); err != nil {
		return err
	}
	defer deps.Migrator.Unlock(ctx) //nolint:errcheck // -

	var opts []migrate.MigrationOption
	if c.Bool("dry-run") {
		opts = append(opts, migrate.WithNopMigration())
	}

	group, err := deps.Migrator.Migrate(ctx, opts...)
	if err != nil {
		return err
	}

	if group.IsZero() {
		deps.Logger.Info("Database is up to date")
		return nil
	}

	deps.Logger.Info("Migrated",
		zap.String("group", group.String()),
		zap.Int("migrations", len(group.Migrations)),
		zap.Bool("dryRun", c.Bool("dry-run")))

	return nil
}

func handleRollback(ctx context.Context, c *cli.Command, deps *CLIDependencies) error {
	if !c.Bool("yes") {
		return ErrRollbackNotConfirmed
	}

	if err := deps.Migrator.Lock(ctx); err != nil {
		return err
	}
	defer deps.Migrator.Unlock(ctx) //nolint:errcheck // -

	group, err := deps.Migrator.Rollback(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		deps.Logger.Info("No groups to roll back")
		return nil
	}

	deps.Logger.Info("Rolled back",
		zap.String("group", group.String()),
		zap.Int("migrations", len(group.Migrations)))

	return nil
}

func handleStatus(ctx context.Context, _ *cli.Command, deps *CLIDependencies) error {
	ms, err := deps.Migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return err
	}

	for _, m := range ms {
		if m.IsApplied() {
			fmt.Printf("%-40s group %d, applied %s\n", m.Name, m.GroupID, m.MigratedAt.Format("2006-01-02 15:04"))
		} else {
			fmt.Printf("%-40s pending\n", m.Name)
		}
	}

	fmt.Printf("%d migrations, %d pending\n", len(ms), len(ms.Unapplied()))
	return nil
}

func handleCreate(ctx context.Context, c *cli.Command, deps *CLIDependencies) error {
	if c.Args().Len() != 1 {
		return ErrNameRequired
	}

	mf, err := deps.Migrator.CreateGoMigration(ctx, c.Args().First())
	if err != nil {
		return err
	}

	deps.Logger.Info("Created Go migration",
		zap.String("name", mf.Name),
		zap.String("path", mf.Path))

	return nil
}
