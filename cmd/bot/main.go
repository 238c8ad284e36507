package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robalyx/tribunal/internal/bot"
	"github.com/robalyx/tribunal/internal/setup"
	"github.com/robalyx/tribunal/internal/setup/telemetry"
	"github.com/robalyx/tribunal/internal/worker/appeal"
	"github.com/robalyx/tribunal/internal/worker/core"
	"github.com/robalyx/tribunal/internal/worker/status"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of the gateway.
const shutdownTimeout = 10 * time.Second

var ErrMissingToken = errors.New("discord token is not configured")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "bot",
		Usage: "Start the tribunal Discord bot",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-sweep",
				Usage: "Do not schedule appeal sweeps",
			},
			&cli.BoolFlag{
				Name:  "no-presence",
				Usage: "Do not rotate the bot presence",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runBot(ctx, !c.Bool("no-sweep"), !c.Bool("no-presence"))
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runBot starts the bot and its scheduled jobs and blocks until ctx is done.
func runBot(ctx context.Context, sweep, presence bool) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	cfg := app.Config.Bot
	if cfg.Discord.Token == "" {
		return ErrMissingToken
	}

	scheduler := core.NewScheduler(cfg.Scheduler.PoolSize, app.Logger)
	defer scheduler.Stop()

	discordBot, err := bot.New(cfg.Discord.Token, cfg.Discord.CommandGuildIDs, app.DB, scheduler, app.Logger)
	if err != nil {
		return err
	}

	if sweep {
		scheduleSweeps(ctx, app, scheduler, discordBot)
	}

	if presence {
		schedulePresence(app, scheduler, discordBot)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := discordBot.Start(ctx); err != nil {
			return fmt.Errorf("failed to start bot: %w", err)
		}

		app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")
		return nil
	})

	// Wait for interrupt signal to gracefully shutdown the bot
	g.Go(func() error {
		<-ctx.Done()

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		discordBot.Close(closeCtx)
		return nil
	})

	return g.Wait()
}

// scheduleSweeps runs the appeal worker on the configured interval.
func scheduleSweeps(ctx context.Context, app *setup.App, scheduler *core.Scheduler, discordBot *bot.Bot) {
	cfg := app.Config.Bot.Scheduler
	logger := app.LogManager.GetWorkerLogger("appeal_worker")

	reporter := core.NewStatusReporter(app.StatusClient, "appeal", "sweep", logger)
	reporter.Start(ctx)

	worker := appeal.New(
		app.DB,
		discordBot.Dispatcher(),
		discordBot.Moderator(),
		app.DB.Service().Channel(),
		reporter,
		appeal.Config{
			GuildTimeout:       time.Duration(cfg.GuildTimeout) * time.Second,
			Concurrency:        cfg.SweepConcurrency,
			VerifyPlatformBans: cfg.VerifyPlatformBans,
		},
		logger,
	)

	logger.Info("Scheduling appeal sweeps",
		zap.String("workerID", reporter.GetWorkerID()),
		zap.Int("interval", cfg.SweepInterval))

	scheduler.Every("appeal_sweep",
		time.Duration(cfg.SweepInitialDelay)*time.Second,
		time.Duration(cfg.SweepInterval)*time.Second,
		func(ctx context.Context) {
			worker.Sweep(ctx)
		},
	)
}

// schedulePresence rotates the presence through the activities file and
// lets /reload pick up edits to it.
func schedulePresence(app *setup.App, scheduler *core.Scheduler, discordBot *bot.Bot) {
	cfg := app.Config.Bot.Scheduler

	path := cfg.ActivitiesFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(app.ConfigDir, path)
	}

	activities, err := status.LoadActivities(path)
	if err != nil {
		app.Logger.Warn("Presence rotation disabled", zap.String("path", path), zap.Error(err))
		return
	}

	rotator, err := status.NewRotator(discordBot.Presence(), activities, app.Logger)
	if err != nil {
		app.Logger.Warn("Presence rotation disabled", zap.Error(err))
		return
	}

	discordBot.OnReload(func(context.Context) error {
		activities, err := status.LoadActivities(path)
		if err != nil {
			return err
		}
		return rotator.Reload(activities)
	})

	scheduler.Every("presence",
		time.Duration(cfg.PresenceInitialDelay)*time.Second,
		time.Duration(cfg.PresenceInterval)*time.Second,
		rotator.Rotate,
	)
}
