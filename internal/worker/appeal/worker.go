package appeal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/models"
	"github.com/robalyx/tribunal/internal/database/service"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/internal/worker/core"
	"github.com/robalyx/tribunal/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Config controls how a sweep runs.
type Config struct {
	// GuildTimeout bounds the work done for a single guild.
	GuildTimeout time.Duration
	// Concurrency is the number of guilds processed at once.
	Concurrency int
	// VerifyPlatformBans checks the platform ban list before opening an appeal.
	VerifyPlatformBans bool
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Guilds       int // Guilds visited
	Failed       int // Guilds that stopped early on an error
	Resolved     int // Polls closed
	Unbanned     int // Users unbanned by appeal or retry
	UnbanFailed  int // Unbans that failed and were marked for retry or manual action
	Opened       int // Polls posted
	StaleRemoved int // Ban records dropped because the platform ban was gone
	Abandoned    int // Appeals dropped because their poll was gone
}

func (r *SweepResult) add(o SweepResult) {
	r.Resolved += o.Resolved
	r.Unbanned += o.Unbanned
	r.UnbanFailed += o.UnbanFailed
	r.Opened += o.Opened
	r.StaleRemoved += o.StaleRemoved
	r.Abandoned += o.Abandoned
}

// Worker reconciles stored bans and appeals with the chat platform.
// It keeps no state between sweeps.
type Worker struct {
	bans       *models.BanModel
	appeals    *models.AppealModel
	settings   *service.SettingService
	channels   ChannelResolver
	dispatcher Dispatcher
	moderator  Moderator
	reporter   *core.StatusReporter
	config     Config
	now        func() time.Time
	logger     *zap.Logger
}

// Option customizes a Worker.
type Option func(*Worker)

// WithClock replaces the wall clock used to judge delays and expiry.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// New creates a new appeal worker.
func New(
	db database.Client,
	dispatcher Dispatcher,
	moderator Moderator,
	channels ChannelResolver,
	reporter *core.StatusReporter,
	config Config,
	logger *zap.Logger,
	opts ...Option,
) *Worker {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.GuildTimeout <= 0 {
		config.GuildTimeout = 2 * time.Minute
	}

	w := &Worker{
		bans:       db.Model().Ban(),
		appeals:    db.Model().Appeal(),
		settings:   db.Service().Setting(),
		channels:   channels,
		dispatcher: dispatcher,
		moderator:  moderator,
		reporter:   reporter,
		config:     config,
		now:        time.Now,
		logger:     logger.Named("appeal_worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Sweep runs one reconciliation pass over every guild that has bans or
// appeals. A failing guild is logged and skipped; the others continue.
func (w *Worker) Sweep(ctx context.Context) SweepResult {
	start := time.Now()
	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("Listing guilds", 0)

	guilds, err := w.guilds(ctx)
	if err != nil {
		w.logger.Error("Failed to list guilds for sweep", zap.Error(err))
		w.reporter.RecordError(err)
		return SweepResult{}
	}

	var (
		result SweepResult
		mu     sync.Mutex
		done   int
	)
	result.Guilds = len(guilds)

	p := pool.New().WithMaxGoroutines(w.config.Concurrency)
	for _, guildID := range guilds {
		p.Go(func() {
			if utils.ContextGuardWithLog(ctx, w.logger, "Sweep cancelled, skipping guild",
				zap.Uint64("guildID", guildID)) {
				return
			}

			guildCtx, cancel := context.WithTimeout(ctx, w.config.GuildTimeout)
			defer cancel()

			res, err := w.sweepGuild(guildCtx, guildID)

			mu.Lock()
			defer mu.Unlock()

			result.add(res)
			if err != nil {
				result.Failed++
				w.reporter.RecordError(fmt.Errorf("guild %d: %w", guildID, err))
				w.logger.Error("Sweep failed for guild",
					zap.Uint64("guildID", guildID),
					zap.Error(err))
			}

			done++
			w.reporter.UpdateStatus("Sweeping guilds", done*100/len(guilds))
		})
	}
	p.Wait()

	w.reporter.UpdateStatus("Idle", 100)
	w.logger.Info("Appeal sweep finished",
		zap.Int("guilds", result.Guilds),
		zap.Int("failed", result.Failed),
		zap.Int("resolved", result.Resolved),
		zap.Int("unbanned", result.Unbanned),
		zap.Int("opened", result.Opened),
		zap.Duration("duration", time.Since(start)))

	return result
}

// guilds returns the sorted union of guilds with ban or appeal containers.
func (w *Worker) guilds(ctx context.Context) ([]uint64, error) {
	banGuilds, err := w.bans.Guilds(ctx)
	if err != nil {
		return nil, err
	}

	appealGuilds, err := w.appeals.Guilds(ctx)
	if err != nil {
		return nil, err
	}

	guilds := slices.Concat(banGuilds, appealGuilds)
	slices.Sort(guilds)
	return slices.Compact(guilds), nil
}

// guildSweep is the state of one guild during a sweep.
type guildSweep struct {
	guildID  uint64
	settings *types.GuildSettings
	staffID  uint64
	hasStaff bool
	failed   map[uint64]struct{} // users whose unban failed in this sweep
	result   SweepResult
}

// sweepGuild runs the resolve, retry and open passes for one guild.
func (w *Worker) sweepGuild(ctx context.Context, guildID uint64) (SweepResult, error) {
	settings, err := w.settings.Settings(ctx, guildID)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to read settings: %w", err)
	}

	g := &guildSweep{
		guildID:  guildID,
		settings: settings,
		failed:   make(map[uint64]struct{}),
	}
	g.staffID, g.hasStaff = w.channels.ResolveChannel(ctx, guildID, enum.ChannelRoleStaff)

	if err := w.resolveAppeals(ctx, g); err != nil {
		return g.result, fmt.Errorf("resolve pass: %w", err)
	}

	if err := w.retryUnbans(ctx, g); err != nil {
		return g.result, fmt.Errorf("retry pass: %w", err)
	}

	if !settings.AppealsEnabled() {
		return g.result, nil
	}

	if !g.hasStaff {
		w.logger.Warn("Skipping appeals for guild",
			zap.Uint64("guildID", guildID),
			zap.Error(types.ErrNoStaffChannel))
		return g.result, nil
	}

	if err := w.openAppeals(ctx, g); err != nil {
		return g.result, fmt.Errorf("open pass: %w", err)
	}

	return g.result, nil
}

// resolveAppeals closes every expired poll of a guild.
func (w *Worker) resolveAppeals(ctx context.Context, g *guildSweep) error {
	appeals, err := w.appeals.List(ctx, g.guildID)
	if err != nil {
		return err
	}

	now := w.now()
	for _, appeal := range appeals {
		if !appeal.IsExpired(now) {
			continue
		}

		if appeal.IsTentative() {
			if _, err := w.appeals.Remove(ctx, appeal); err != nil {
				return err
			}
			w.logger.Warn("Dropped expired appeal that never got a poll",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", appeal.UserID))
			continue
		}

		if !g.hasStaff {
			w.logger.Warn("Cannot resolve appeal without a staff channel",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", appeal.UserID))
			continue
		}

		if err := w.resolveAppeal(ctx, g, appeal); err != nil {
			return err
		}
	}

	return nil
}

// resolveAppeal tallies one poll and carries out the verdict.
func (w *Worker) resolveAppeal(ctx context.Context, g *guildSweep, appeal *types.GuildAppeal) error {
	counts, err := w.dispatcher.ReactionCounts(ctx, g.staffID, appeal.PollMessageID)
	if err != nil {
		if utils.ContextGuard(ctx) {
			return ctx.Err()
		}
		if errors.Is(err, types.ErrPollGone) {
			return w.abandonAppeal(ctx, g, appeal, err)
		}
		w.logger.Warn("Failed to fetch poll reactions, will retry next sweep",
			zap.Uint64("guildID", g.guildID),
			zap.Uint64("userID", appeal.UserID),
			zap.Uint64("pollMessageID", appeal.PollMessageID),
			zap.Error(err))
		return nil
	}

	up, down := counts[UpvoteEmoji], counts[DownvoteEmoji]
	verdict := Tally(up, down)

	// Removing first makes resolution happen at most once per appeal.
	removed, err := w.appeals.Remove(ctx, appeal)
	if err != nil {
		return err
	}
	if removed == nil {
		w.logger.Debug("Appeal already resolved",
			zap.Uint64("guildID", g.guildID),
			zap.Uint64("userID", appeal.UserID))
		return nil
	}
	g.result.Resolved++

	w.logger.Info("Appeal resolved",
		zap.Uint64("guildID", g.guildID),
		zap.Uint64("userID", appeal.UserID),
		zap.Int("upvotes", up),
		zap.Int("downvotes", down),
		zap.String("verdict", verdict.String()))

	w.post(ctx, g.guildID, g.staffID, verdictText(verdict, appeal.UserID))

	if verdict != enum.VerdictUnban {
		_, err := w.bans.SetStatus(ctx, g.guildID, appeal.UserID, enum.BanStatusUpheld)
		return err
	}

	if err := w.moderator.Unban(ctx, g.guildID, appeal.UserID, "Ban appeal accepted"); err != nil {
		w.logger.Error("Failed to unban user after appeal",
			zap.Uint64("guildID", g.guildID),
			zap.Uint64("userID", appeal.UserID),
			zap.Error(err))

		g.result.UnbanFailed++
		g.failed[appeal.UserID] = struct{}{}
		w.post(ctx, g.guildID, g.staffID, unbanFailedText(appeal.UserID))

		_, err := w.bans.SetStatus(ctx, g.guildID, appeal.UserID, enum.BanStatusUnbanFailed)
		return err
	}

	g.result.Unbanned++
	return w.completeUnban(ctx, g, appeal.UserID)
}

// abandonAppeal drops an appeal whose poll can no longer be read. The ban
// stays active so the open pass posts a fresh poll.
func (w *Worker) abandonAppeal(ctx context.Context, g *guildSweep, appeal *types.GuildAppeal, cause error) error {
	removed, err := w.appeals.Remove(ctx, appeal)
	if err != nil {
		return err
	}
	if removed == nil {
		return nil
	}
	g.result.Abandoned++

	w.logger.Warn("Dropped appeal whose poll is gone",
		zap.Uint64("guildID", g.guildID),
		zap.Uint64("userID", appeal.UserID),
		zap.Uint64("pollMessageID", appeal.PollMessageID),
		zap.Error(cause))

	w.post(ctx, g.guildID, g.staffID, pollGoneText(appeal.UserID))
	return nil
}

// retryUnbans makes one more attempt for every ban whose unban failed in an
// earlier sweep.
func (w *Worker) retryUnbans(ctx context.Context, g *guildSweep) error {
	bans, err := w.bans.List(ctx, g.guildID)
	if err != nil {
		return err
	}

	for _, ban := range bans {
		if ban.Status != enum.BanStatusUnbanFailed {
			continue
		}
		if _, ok := g.failed[ban.UserID]; ok {
			continue
		}

		if err := w.moderator.Unban(ctx, g.guildID, ban.UserID, "Ban appeal accepted"); err != nil {
			if utils.ContextGuard(ctx) {
				return ctx.Err()
			}

			w.logger.Error("Retried unban failed, manual unban required",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", ban.UserID),
				zap.Error(err))

			g.result.UnbanFailed++
			if _, err := w.bans.SetStatus(ctx, g.guildID, ban.UserID, enum.BanStatusManualUnban); err != nil {
				return err
			}
			if g.hasStaff {
				w.post(ctx, g.guildID, g.staffID, manualUnbanText(ban.UserID))
			}
			continue
		}

		g.result.Unbanned++
		if g.hasStaff {
			w.post(ctx, g.guildID, g.staffID, retrySucceededText(ban.UserID))
		}
		if err := w.completeUnban(ctx, g, ban.UserID); err != nil {
			return err
		}
	}

	return nil
}

// completeUnban removes the ban record and sends the optional notifications.
func (w *Worker) completeUnban(ctx context.Context, g *guildSweep, userID uint64) error {
	if _, err := w.bans.Remove(ctx, g.guildID, userID); err != nil {
		return err
	}

	w.logger.Info("User unbanned by appeal",
		zap.Uint64("guildID", g.guildID),
		zap.Uint64("userID", userID))

	if g.settings.AnnounceInMain {
		if mainID, ok := w.channels.ResolveChannel(ctx, g.guildID, enum.ChannelRoleMain); ok {
			w.post(ctx, g.guildID, mainID, mainAnnouncementText(userID))
		}
	}

	if g.settings.NotifyByDM {
		if err := w.dispatcher.SendDirectMessage(ctx, userID, directMessageText); err != nil {
			w.logger.Warn("Failed to notify unbanned user",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", userID),
				zap.Error(err))
		}
	}

	return nil
}

// openAppeals posts a poll for every ban that has become eligible.
func (w *Worker) openAppeals(ctx context.Context, g *guildSweep) error {
	bans, err := w.bans.List(ctx, g.guildID)
	if err != nil {
		return err
	}

	appeals, err := w.appeals.List(ctx, g.guildID)
	if err != nil {
		return err
	}

	existing := make(map[uint64]*types.GuildAppeal, len(appeals))
	for _, appeal := range appeals {
		existing[appeal.UserID] = appeal
	}

	now := w.now()
	for _, ban := range bans {
		if !ban.IsAppealable() || now.Before(ban.EligibleAt(g.settings.AppealDelay)) {
			continue
		}

		appeal := existing[ban.UserID]
		if appeal != nil && !appeal.IsTentative() {
			continue
		}

		// Only an appeal left over from an earlier run can have an unrecorded poll
		leftover := appeal != nil
		if !leftover {
			created, err := w.createAppeal(ctx, g, ban, now)
			if err != nil {
				return err
			}
			if created == nil {
				continue
			}
			appeal = created
		}

		if err := w.postPoll(ctx, g, appeal, ban, leftover, now); err != nil {
			return err
		}
	}

	return nil
}

// createAppeal persists a tentative appeal. Returns nil when no appeal should be opened.
func (w *Worker) createAppeal(
	ctx context.Context, g *guildSweep, ban *types.GuildBan, now time.Time,
) (*types.GuildAppeal, error) {
	if w.config.VerifyPlatformBans {
		banned, err := w.moderator.IsBanned(ctx, g.guildID, ban.UserID)
		if err != nil {
			if utils.ContextGuard(ctx) {
				return nil, ctx.Err()
			}
			w.logger.Warn("Failed to check platform ban",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", ban.UserID),
				zap.Error(err))
			return nil, nil
		}

		if !banned {
			if _, err := w.bans.Remove(ctx, g.guildID, ban.UserID); err != nil {
				return nil, err
			}
			g.result.StaleRemoved++
			w.logger.Info("Removed ban record of user no longer banned",
				zap.Uint64("guildID", g.guildID),
				zap.Uint64("userID", ban.UserID))
			return nil, nil
		}
	}

	appeal := &types.GuildAppeal{
		GuildID:   g.guildID,
		UserID:    ban.UserID,
		ExpiresAt: now.Add(VotingWindow),
	}

	err := w.appeals.Create(ctx, appeal)
	if errors.Is(err, types.ErrAppealExists) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return appeal, nil
}

// postPoll posts the poll of a tentative appeal. A leftover appeal first
// reuses a poll posted for it by an earlier run that never recorded it.
func (w *Worker) postPoll(
	ctx context.Context, g *guildSweep, appeal *types.GuildAppeal, ban *types.GuildBan, leftover bool, now time.Time,
) error {
	logger := w.logger.With(
		zap.Uint64("guildID", g.guildID),
		zap.Uint64("userID", appeal.UserID))

	var (
		messageID uint64
		found     bool
		err       error
	)
	if leftover {
		createdAt := appeal.ExpiresAt.Add(-VotingWindow)
		messageID, found, err = w.dispatcher.FindMessage(ctx, g.staffID, pollMarker(appeal.UserID), createdAt)
		if err != nil {
			if utils.ContextGuard(ctx) {
				return ctx.Err()
			}
			logger.Warn("Failed to search for an existing poll, will retry next sweep", zap.Error(err))
			return nil
		}
	}

	if found {
		logger.Info("Recovered orphaned poll", zap.Uint64("pollMessageID", messageID))
	} else {
		messageID, err = w.dispatcher.PostMessage(ctx, g.staffID, pollText(ban, now))
		if err != nil {
			logger.Error("Failed to post appeal poll", zap.Error(err))

			if _, err := w.appeals.Remove(ctx, appeal); err != nil {
				return err
			}
			return nil
		}
	}

	for _, emoji := range []string{UpvoteEmoji, DownvoteEmoji} {
		if err := w.dispatcher.AddReaction(ctx, g.staffID, messageID, emoji); err != nil {
			logger.Warn("Failed to add poll reaction", zap.String("emoji", emoji), zap.Error(err))
		}
	}

	attached, err := w.appeals.AttachPoll(ctx, g.guildID, appeal.UserID, messageID)
	if err != nil {
		return err
	}
	if !attached {
		logger.Warn("Appeal disappeared before its poll was recorded", zap.Uint64("pollMessageID", messageID))
		return nil
	}

	g.result.Opened++
	logger.Info("Ban appeal started",
		zap.Uint64("pollMessageID", messageID),
		zap.Time("expiresAt", appeal.ExpiresAt))

	return nil
}

// post sends a message and logs a failure.
func (w *Worker) post(ctx context.Context, guildID, channelID uint64, text string) {
	if _, err := w.dispatcher.PostMessage(ctx, channelID, text); err != nil {
		w.logger.Error("Failed to post message",
			zap.Uint64("guildID", guildID),
			zap.Uint64("channelID", channelID),
			zap.Error(err))
	}
}
