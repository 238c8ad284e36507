package service

import (
	"context"

	"github.com/robalyx/tribunal/internal/database/models"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
)

// ChannelService resolves and configures the logical channels of a guild.
type ChannelService struct {
	model  *models.ChannelModel
	logger *zap.Logger
}

// NewChannel creates a new channel service.
func NewChannel(model *models.ChannelModel, logger *zap.Logger) *ChannelService {
	return &ChannelService{
		model:  model,
		logger: logger.Named("channel_service"),
	}
}

// ResolveChannel returns the channel configured for a role.
// ok is false when the role is unset or the map cannot be read.
func (s *ChannelService) ResolveChannel(ctx context.Context, guildID uint64, role enum.ChannelRole) (uint64, bool) {
	channels, _, err := s.model.Get(ctx, guildID)
	if err != nil {
		s.logger.Warn("Failed to read channel map",
			zap.Uint64("guildID", guildID),
			zap.String("role", role.String()),
			zap.Error(err))
		return 0, false
	}

	channelID := channels.Get(role)
	return channelID, channelID != 0
}

// Channels returns the full channel map of a guild.
func (s *ChannelService) Channels(ctx context.Context, guildID uint64) (*types.GuildChannels, error) {
	channels, _, err := s.model.Get(ctx, guildID)
	return channels, err
}

// SetChannel assigns a channel to a role.
func (s *ChannelService) SetChannel(ctx context.Context, guildID uint64, role enum.ChannelRole, channelID uint64) error {
	if err := s.model.Set(ctx, guildID, role, channelID); err != nil {
		return err
	}

	s.logger.Info("Channel role updated",
		zap.Uint64("guildID", guildID),
		zap.String("role", role.String()),
		zap.Uint64("channelID", channelID))

	return nil
}
