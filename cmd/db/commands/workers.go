package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/robalyx/tribunal/internal/redis"
	"github.com/robalyx/tribunal/internal/worker/core"
	"github.com/urfave/cli/v3"
)

var ErrRedisDisabled = errors.New("redis is disabled in common.toml")

// WorkerCommands returns the commands that inspect worker heartbeats.
func WorkerCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "workers",
			Usage:  "List the worker statuses reported to Redis",
			Action: handleWorkers(deps),
		},
	}
}

// handleWorkers handles the 'workers' command.
func handleWorkers(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		manager := redis.NewManager(&deps.Config.Common.Redis, deps.Logger)
		defer manager.Close()

		client, err := manager.StatusClient()
		if err != nil {
			return err
		}
		if client == nil {
			return ErrRedisDisabled
		}
		if err := manager.Ping(ctx, redis.StatusDatabase); err != nil {
			return fmt.Errorf("redis is unreachable: %w", err)
		}

		statuses, err := core.NewMonitor(client, deps.Logger).GetAllStatuses(ctx)
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			fmt.Println("No workers have reported in the last", core.HeartbeatTTL)
			return nil
		}

		sort.Slice(statuses, func(i, j int) bool {
			if statuses[i].WorkerType != statuses[j].WorkerType {
				return statuses[i].WorkerType < statuses[j].WorkerType
			}
			return statuses[i].WorkerID < statuses[j].WorkerID
		})

		now := time.Now()
		for _, s := range statuses {
			state := "healthy"
			switch {
			case s.IsStale(now):
				state = "stale"
			case !s.IsHealthy:
				state = "unhealthy"
			}

			fmt.Printf("%s/%s %s  %-9s %3d%%  %s (seen %s ago)\n",
				s.WorkerType, s.SubType, s.WorkerID, state, s.Progress, s.CurrentTask,
				now.Sub(s.LastSeen).Round(time.Second))

			if s.LastError != "" {
				fmt.Printf("    last error: %s\n", s.LastError)
			}
		}

		return nil
	}
}
