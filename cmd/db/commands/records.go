package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/pkg/utils"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// RecordCommands returns the commands that move and inspect guild records.
func RecordCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "import",
			Usage: "Copy every guild's records from a CSV data directory into the configured backend",
			Description: `Copy the banList, appeals, banSettings and channels stores of a CSV data
directory into the configured backend. Containers that already exist are kept
unless --overwrite is given.

Examples:
  db import --from ./data                # Import into the configured backend
  db import --from ./data --overwrite    # Replace existing containers`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "from",
					Usage:    "CSV data directory to read",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "overwrite",
					Usage: "Replace containers that already exist",
				},
				&cli.IntFlag{
					Name:  "concurrency",
					Usage: "Containers copied at once",
					Value: 4,
				},
			},
			Action: handleImport(deps),
		},
		{
			Name:      "dump",
			Usage:     "Print a guild's records as JSON",
			ArgsUsage: "GUILD_ID",
			Action:    handleDump(deps),
		},
	}
}

// handleImport handles the 'import' command.
func handleImport(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		src, err := file.New(c.String("from"))
		if err != nil {
			return err
		}
		defer src.Close()

		start := time.Now()
		result, err := backend.Copy(ctx, src, deps.DB.Backend(), backend.CopyOptions{
			Overwrite:   c.Bool("overwrite"),
			Concurrency: int(c.Int("concurrency")),
			Progress: func(kind enum.Kind, guildID uint64, rows int, copied bool) {
				deps.Logger.Debug("Imported container",
					zap.String("kind", kind.String()),
					zap.Uint64("guildID", guildID),
					zap.Int("rows", rows),
					zap.Bool("copied", copied))
			},
		})
		if err != nil {
			if utils.ContextGuardWithLog(ctx, deps.Logger, "Import cancelled") {
				return ctx.Err()
			}
			return err
		}

		deps.Logger.Info("Import finished",
			zap.String("backend", deps.Config.Common.Storage.Backend),
			zap.Int("copied", result.Copied),
			zap.Int("skipped", result.Skipped),
			zap.Int("rows", result.Rows),
			zap.Duration("duration", time.Since(start)))

		return nil
	}
}

type dumpBan struct {
	UserID   uint64    `json:"userId"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"bannedAt"`
	Status   string    `json:"status"`
}

type dumpAppeal struct {
	UserID        uint64    `json:"userId"`
	PollMessageID uint64    `json:"pollMessageId"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type dumpSettings struct {
	AppealDelayDays    int    `json:"appealDelayDays"`
	AnnounceInMain     bool   `json:"announceInMain"`
	NotifyByDM         bool   `json:"notifyByDm"`
	VerificationDelay  int64  `json:"verificationDelaySeconds"`
	VerificationRoleID uint64 `json:"verificationRoleId"`
}

type dumpOutput struct {
	GuildID  uint64            `json:"guildId"`
	Channels map[string]uint64 `json:"channels"`
	Settings dumpSettings      `json:"settings"`
	Bans     []dumpBan         `json:"bans"`
	Appeals  []dumpAppeal      `json:"appeals"`
}

// handleDump handles the 'dump' command.
func handleDump(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrGuildIDRequired
		}

		guildID, err := strconv.ParseUint(c.Args().First(), 10, 64)
		if err != nil {
			return ErrInvalidGuildID
		}

		out, err := collectDump(ctx, deps, guildID)
		if err != nil {
			return err
		}

		data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}

		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
}

func collectDump(ctx context.Context, deps *CLIDependencies, guildID uint64) (*dumpOutput, error) {
	models := deps.DB.Model()
	out := &dumpOutput{
		GuildID:  guildID,
		Channels: make(map[string]uint64),
		Bans:     []dumpBan{},
		Appeals:  []dumpAppeal{},
	}

	channels, _, err := models.Channel().Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range enum.ChannelRoleValues() {
		out.Channels[role.String()] = channels.Get(role)
	}

	settings, _, err := models.Setting().Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	out.Settings = dumpSettings{
		AppealDelayDays:    int(settings.AppealDelay / (24 * time.Hour)),
		AnnounceInMain:     settings.AnnounceInMain,
		NotifyByDM:         settings.NotifyByDM,
		VerificationDelay:  int64(settings.VerificationDelay / time.Second),
		VerificationRoleID: settings.VerificationRoleID,
	}

	bans, err := models.Ban().List(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, ban := range bans {
		out.Bans = append(out.Bans, dumpBan{
			UserID:   ban.UserID,
			Reason:   ban.Reason,
			BannedAt: ban.BannedAt.UTC(),
			Status:   ban.Status.String(),
		})
	}

	appeals, err := models.Appeal().List(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, appeal := range appeals {
		out.Appeals = append(out.Appeals, dumpAppeal{
			UserID:        appeal.UserID,
			PollMessageID: appeal.PollMessageID,
			ExpiresAt:     appeal.ExpiresAt.UTC(),
		})
	}

	return out, nil
}
