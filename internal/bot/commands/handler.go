package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/tribunal/internal/bot/constants"
	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/service"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	tdiscord "github.com/robalyx/tribunal/internal/discord"
	"github.com/robalyx/tribunal/internal/worker/appeal"
	"github.com/robalyx/tribunal/pkg/utils"
	"go.uber.org/zap"
)

// Invocation describes who ran a command and where.
type Invocation struct {
	GuildID     uint64
	GuildName   string
	ActorID     uint64
	Permissions discord.Permissions
}

// Handler runs the moderation commands. Every method returns the reply
// shown to the invoking moderator.
type Handler struct {
	bans       *service.BanService
	settings   *service.SettingService
	channels   *service.ChannelService
	guilds     *service.GuildService
	dispatcher appeal.Dispatcher
	moderator  appeal.Moderator
	reload     func(ctx context.Context) error
	now        func() time.Time
	logger     *zap.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock replaces the wall clock used to timestamp bans and timeouts.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithReloadHook runs fn on /reload after the guild stores are initialized.
func WithReloadHook(fn func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.reload = fn
	}
}

// NewHandler creates a new command handler.
func NewHandler(
	db database.Client,
	dispatcher appeal.Dispatcher,
	moderator appeal.Moderator,
	logger *zap.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		bans:       db.Service().Ban(),
		settings:   db.Service().Setting(),
		channels:   db.Service().Channel(),
		guilds:     db.Service().Guild(),
		dispatcher: dispatcher,
		moderator:  moderator,
		now:        time.Now,
		logger:     logger.Named("commands"),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// SetReloadHook replaces the hook run on /reload.
func (h *Handler) SetReloadHook(fn func(ctx context.Context) error) {
	h.reload = fn
}

// Set assigns a channel to a role, or lists the roles for "info".
func (h *Handler) Set(ctx context.Context, inv Invocation, kind string, channelID uint64) string {
	if !h.allowed(inv, constants.SetCommandName, discord.PermissionManageChannels) {
		return constants.InsufficientPermissions
	}

	if kind == infoType {
		return InfoText()
	}

	role, ok := ParseChannelRole(kind)
	if !ok || channelID == 0 {
		return constants.WrongArgument
	}

	if err := h.channels.SetChannel(ctx, inv.GuildID, role, channelID); err != nil {
		h.logger.Error("Failed to set channel",
			zap.Uint64("guildID", inv.GuildID),
			zap.String("role", role.String()),
			zap.Error(err))
		return constants.UnexpectedError
	}

	return constants.ChangeApplied
}

// Ban bans a user, records the ban for appeals and sends the configured
// notifications. deleteHours is clamped to [0, MaxDeletionHours].
func (h *Handler) Ban(
	ctx context.Context, inv Invocation, targetID uint64, reason string, deleteHours int,
) string {
	if !h.allowed(inv, constants.BanCommandName, discord.PermissionBanMembers) {
		return constants.InsufficientPermissions
	}

	if targetID == inv.ActorID {
		return constants.BanSelfRefused
	}

	reason = utils.CompressAllWhitespace(reason)
	deleteHours = min(max(deleteHours, 0), constants.MaxDeletionHours)
	settings := h.guildSettings(ctx, inv.GuildID)

	// Members only receive DMs while they still share a guild with the bot
	if settings.NotifyByDM {
		h.notify(ctx, inv.GuildID, targetID, banDMText(inv.GuildName, inv.ActorID, reason))
	}

	err := h.moderator.Ban(ctx, inv.GuildID, targetID,
		time.Duration(deleteHours)*time.Hour, auditReason("Banned", inv.ActorID, reason))
	if err != nil {
		h.logger.Error("Failed to ban user",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	if err := h.bans.RecordBan(ctx, inv.GuildID, targetID, reason, h.now()); err != nil {
		h.logger.Error("Failed to record ban",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
		return constants.BanNotRecorded
	}

	if settings.AnnounceInMain {
		h.announce(ctx, inv.GuildID, banAnnouncementText(targetID, inv.GuildName))
	}

	h.logger.Info("User banned",
		zap.Uint64("guildID", inv.GuildID),
		zap.Uint64("userID", targetID),
		zap.Uint64("moderatorID", inv.ActorID),
		zap.Int("deleteHours", deleteHours))

	return constants.BanSuccessful
}

// Unban lifts a platform ban and clears the ban record with any open appeal.
func (h *Handler) Unban(ctx context.Context, inv Invocation, targetID uint64) string {
	if !h.allowed(inv, constants.UnbanCommandName, discord.PermissionBanMembers) {
		return constants.InsufficientPermissions
	}

	err := h.moderator.Unban(ctx, inv.GuildID, targetID, auditReason("Unbanned", inv.ActorID, ""))
	if err != nil {
		h.logger.Error("Failed to unban user",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	if _, err := h.bans.ClearBan(ctx, inv.GuildID, targetID); err != nil {
		h.logger.Error("Failed to clear ban record",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
	}

	if h.guildSettings(ctx, inv.GuildID).NotifyByDM {
		h.notify(ctx, inv.GuildID, targetID, unbanDMText(inv.GuildName))
	}

	h.logger.Info("User unbanned",
		zap.Uint64("guildID", inv.GuildID),
		zap.Uint64("userID", targetID),
		zap.Uint64("moderatorID", inv.ActorID))

	return constants.UnbanSuccessful
}

// Kick removes a member from the guild.
func (h *Handler) Kick(ctx context.Context, inv Invocation, targetID uint64, reason string) string {
	if !h.allowed(inv, constants.KickCommandName, discord.PermissionKickMembers) {
		return constants.InsufficientPermissions
	}

	reason = utils.CompressAllWhitespace(reason)
	if h.guildSettings(ctx, inv.GuildID).NotifyByDM {
		h.notify(ctx, inv.GuildID, targetID, kickDMText(inv.GuildName, inv.ActorID, reason))
	}

	if err := h.moderator.Kick(ctx, inv.GuildID, targetID, auditReason("Kicked", inv.ActorID, reason)); err != nil {
		h.logger.Error("Failed to kick member",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	h.logger.Info("Member kicked",
		zap.Uint64("guildID", inv.GuildID),
		zap.Uint64("userID", targetID),
		zap.Uint64("moderatorID", inv.ActorID))

	return constants.KickSuccessful
}

// Timeout stops a member from interacting for a duration such as "15m".
func (h *Handler) Timeout(
	ctx context.Context, inv Invocation, targetID uint64, duration, reason string,
) string {
	if !h.allowed(inv, constants.TimeoutCommandName, discord.PermissionModerateMembers) {
		return constants.InsufficientPermissions
	}

	d, err := utils.ParseShortDuration(duration)
	if err != nil || d <= 0 || d > tdiscord.MaxTimeout {
		return constants.TimeoutInvalid
	}

	reason = utils.CompressAllWhitespace(reason)
	until := h.now().Add(d)

	err = h.moderator.Timeout(ctx, inv.GuildID, targetID, until, auditReason("Timed out", inv.ActorID, reason))
	if err != nil {
		h.logger.Error("Failed to time out member",
			zap.Uint64("guildID", inv.GuildID),
			zap.Uint64("userID", targetID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	if h.guildSettings(ctx, inv.GuildID).NotifyByDM {
		h.notify(ctx, inv.GuildID, targetID, timeoutDMText(inv.GuildName, inv.ActorID, d, reason))
	}

	h.logger.Info("Member timed out",
		zap.Uint64("guildID", inv.GuildID),
		zap.Uint64("userID", targetID),
		zap.Uint64("moderatorID", inv.ActorID),
		zap.Time("until", until))

	return constants.TimeoutSuccessful
}

// BanAppealSet sets the days after a ban before its appeal opens.
func (h *Handler) BanAppealSet(ctx context.Context, inv Invocation, days int) string {
	if !h.allowed(inv, constants.BanAppealSetCommandName, discord.PermissionBanMembers) {
		return constants.InsufficientPermissions
	}

	if days < 0 || days > constants.MaxAppealDays {
		return AppealDelayErrorText(days)
	}

	if _, err := h.settings.SetAppealDelay(ctx, inv.GuildID, time.Duration(days)*24*time.Hour); err != nil {
		h.logger.Error("Failed to set appeal delay",
			zap.Uint64("guildID", inv.GuildID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	return constants.ChangeApplied
}

// BanMessageSet chooses whether ban messages go to the main channel and by
// DM. A nil value keeps the current setting.
func (h *Handler) BanMessageSet(ctx context.Context, inv Invocation, announceInMain, notifyByDM *bool) string {
	if !h.allowed(inv, constants.BanMessageSetCommandName, discord.PermissionBanMembers) {
		return constants.InsufficientPermissions
	}

	current, err := h.settings.Settings(ctx, inv.GuildID)
	if err != nil {
		h.logger.Error("Failed to read guild settings",
			zap.Uint64("guildID", inv.GuildID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	inMain, dm := current.AnnounceInMain, current.NotifyByDM
	if announceInMain != nil {
		inMain = *announceInMain
	}
	if notifyByDM != nil {
		dm = *notifyByDM
	}

	if err := h.settings.SetBanMessages(ctx, inv.GuildID, inMain, dm); err != nil {
		h.logger.Error("Failed to set ban messages",
			zap.Uint64("guildID", inv.GuildID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	return constants.ChangeApplied
}

// VerificationSet sets how long new members wait before they receive the
// verification role. A zero delay disables verification and clears the role.
func (h *Handler) VerificationSet(ctx context.Context, inv Invocation, delay string, roleID uint64) string {
	if !h.allowed(inv, constants.VerificationSetCommandName, discord.PermissionManageRoles) {
		return constants.InsufficientPermissions
	}

	d, err := utils.ParseShortDuration(delay)
	if err != nil || d > constants.MaxAppealDays*24*time.Hour {
		return constants.VerificationInvalid
	}

	switch {
	case d == 0:
		roleID = 0
	case roleID == 0:
		return constants.WrongArgument
	}

	if err := h.settings.SetVerification(ctx, inv.GuildID, d, roleID); err != nil {
		h.logger.Error("Failed to set verification",
			zap.Uint64("guildID", inv.GuildID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	return constants.ChangeApplied
}

// Reload recreates any missing guild stores and runs the reload hook.
func (h *Handler) Reload(ctx context.Context, inv Invocation) string {
	if !h.allowed(inv, constants.ReloadCommandName,
		discord.PermissionManageGuild, discord.PermissionManageChannels) {
		return constants.InsufficientPermissions
	}

	if err := h.guilds.Initialize(ctx, inv.GuildID); err != nil {
		h.logger.Error("Failed to initialize guild",
			zap.Uint64("guildID", inv.GuildID),
			zap.Error(err))
		return constants.UnexpectedError
	}

	if h.reload != nil {
		if err := h.reload(ctx); err != nil {
			h.logger.Error("Reload hook failed", zap.Error(err))
			return constants.UnexpectedError
		}
	}

	return constants.ReloadSuccessful
}

// allowed checks that the invoker holds every permission.
func (h *Handler) allowed(inv Invocation, command string, perms ...discord.Permissions) bool {
	if inv.Permissions.Has(perms...) {
		return true
	}

	h.logger.Warn("Insufficient permissions",
		zap.String("command", command),
		zap.Uint64("guildID", inv.GuildID),
		zap.Uint64("userID", inv.ActorID))
	return false
}

// guildSettings reads the settings, treating unreadable settings as defaults.
func (h *Handler) guildSettings(ctx context.Context, guildID uint64) *types.GuildSettings {
	settings, err := h.settings.Settings(ctx, guildID)
	if err != nil {
		h.logger.Warn("Failed to read guild settings",
			zap.Uint64("guildID", guildID),
			zap.Error(err))
		return &types.GuildSettings{GuildID: guildID}
	}
	return settings
}

func (h *Handler) notify(ctx context.Context, guildID, userID uint64, text string) {
	if err := h.dispatcher.SendDirectMessage(ctx, userID, text); err != nil {
		h.logger.Warn("Failed to send direct message",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID),
			zap.Error(err))
	}
}

func (h *Handler) announce(ctx context.Context, guildID uint64, text string) {
	channelID, ok := h.channels.ResolveChannel(ctx, guildID, enum.ChannelRoleMain)
	if !ok {
		return
	}

	if _, err := h.dispatcher.PostMessage(ctx, channelID, text); err != nil {
		h.logger.Warn("Failed to post announcement",
			zap.Uint64("guildID", guildID),
			zap.Uint64("channelID", channelID),
			zap.Error(err))
	}
}
