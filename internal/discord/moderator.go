package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/tribunal/pkg/utils"
	"go.uber.org/zap"
)

const (
	// MaxDeleteHistory is the longest message history Discord deletes on ban.
	MaxDeleteHistory = 7 * 24 * time.Hour
	// MaxTimeout is the longest timeout Discord accepts.
	MaxTimeout = 28 * 24 * time.Hour
	// maxReasonLength is the audit log reason limit.
	maxReasonLength = 512
)

// Moderator performs moderation actions over the REST API.
type Moderator struct {
	api    API
	retry  utils.RetryOptions
	logger *zap.Logger
}

// NewModerator creates a moderator.
func NewModerator(api API, logger *zap.Logger) *Moderator {
	logger = logger.Named("discord_moderator")
	return &Moderator{
		api:    api,
		retry:  retryOptions(logger),
		logger: logger,
	}
}

// retryOptions returns the Discord retry policy with failed attempts logged.
func retryOptions(logger *zap.Logger) utils.RetryOptions {
	opts := utils.GetDiscordRetryOptions()
	opts.OnRetry = func(err error, wait time.Duration) {
		logger.Warn("Retrying Discord request",
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	return opts
}

// Unban lifts a ban. A user who is not banned counts as unbanned.
func (m *Moderator) Unban(ctx context.Context, guildID, userID uint64, reason string) error {
	err := utils.Retry(ctx, func() error {
		err := m.api.DeleteBan(snowflake.ID(guildID), snowflake.ID(userID), requestOpts(ctx, reason)...)
		if isErrorCode(err, ErrorCodeUnknownBan) {
			return nil
		}
		return classify(err)
	}, m.retry)
	if err != nil {
		return fmt.Errorf("failed to unban %d: %w", userID, err)
	}

	m.logger.Debug("Unbanned user",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID))
	return nil
}

// Ban bans a user and deletes up to MaxDeleteHistory of their messages.
func (m *Moderator) Ban(ctx context.Context, guildID, userID uint64, deleteHistory time.Duration, reason string) error {
	deleteHistory = min(max(deleteHistory, 0), MaxDeleteHistory)

	err := utils.Retry(ctx, func() error {
		return classify(m.api.AddBan(snowflake.ID(guildID), snowflake.ID(userID), deleteHistory, requestOpts(ctx, reason)...))
	}, m.retry)
	if err != nil {
		return fmt.Errorf("failed to ban %d: %w", userID, err)
	}
	return nil
}

// Kick removes a member from the guild.
func (m *Moderator) Kick(ctx context.Context, guildID, userID uint64, reason string) error {
	err := utils.Retry(ctx, func() error {
		return classify(m.api.RemoveMember(snowflake.ID(guildID), snowflake.ID(userID), requestOpts(ctx, reason)...))
	}, m.retry)
	if err != nil {
		return fmt.Errorf("failed to kick %d: %w", userID, err)
	}
	return nil
}

// Timeout prevents a member from interacting until the given time.
func (m *Moderator) Timeout(ctx context.Context, guildID, userID uint64, until time.Time, reason string) error {
	update := discord.MemberUpdate{
		CommunicationDisabledUntil: json.NewNullablePtr(until),
	}

	_, err := utils.WithRetry(ctx, func() (*discord.Member, error) {
		member, err := m.api.UpdateMember(snowflake.ID(guildID), snowflake.ID(userID), update, requestOpts(ctx, reason)...)
		return member, classify(err)
	}, m.retry)
	if err != nil {
		return fmt.Errorf("failed to time out %d: %w", userID, err)
	}
	return nil
}

// IsBanned reports whether the user is on the guild's ban list.
func (m *Moderator) IsBanned(ctx context.Context, guildID, userID uint64) (bool, error) {
	_, err := utils.WithRetry(ctx, func() (*discord.Ban, error) {
		ban, err := m.api.GetBan(snowflake.ID(guildID), snowflake.ID(userID), rest.WithCtx(ctx))
		return ban, classify(err)
	}, m.retry)
	if isErrorCode(err, ErrorCodeUnknownBan) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up ban of %d: %w", userID, err)
	}
	return true, nil
}

func requestOpts(ctx context.Context, reason string) []rest.RequestOpt {
	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		opts = append(opts, rest.WithReason(utils.Truncate(reason, maxReasonLength)))
	}
	return opts
}
