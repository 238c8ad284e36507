package events

import (
	"context"

	"github.com/robalyx/tribunal/internal/database/service"
	"go.uber.org/zap"
)

// GuildEventHandler manages guild-related events for the bot.
type GuildEventHandler struct {
	guilds *service.GuildService
	logger *zap.Logger
}

// NewGuildEventHandler creates a new instance of the guild event handler.
func NewGuildEventHandler(guilds *service.GuildService, logger *zap.Logger) *GuildEventHandler {
	return &GuildEventHandler{
		guilds: guilds,
		logger: logger.Named("guild_events"),
	}
}

// OnGuildJoin creates the default stores of a guild the bot just joined.
// Guilds that already have stores keep them.
func (h *GuildEventHandler) OnGuildJoin(ctx context.Context, guildID uint64, guildName string) error {
	h.logger.Info("Bot joined a guild",
		zap.Uint64("guildID", guildID),
		zap.String("guildName", guildName))

	return h.guilds.Initialize(ctx, guildID)
}
