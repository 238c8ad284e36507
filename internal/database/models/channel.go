package models

import (
	"context"

	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/robalyx/tribunal/internal/database/store"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
)

// ChannelModel handles storage operations for the channel-role map.
type ChannelModel struct {
	store  *store.Store[types.GuildChannels, *types.GuildChannels]
	logger *zap.Logger
}

// NewChannel creates a new channel model instance.
func NewChannel(b backend.Backend, locks *lock.KeyedMutex, logger *zap.Logger) *ChannelModel {
	return &ChannelModel{
		store:  store.New[types.GuildChannels](enum.KindChannels, b, locks, logger),
		logger: logger.Named("db_channel"),
	}
}

// Get returns the channel map of a guild. found is false when none is stored.
func (m *ChannelModel) Get(ctx context.Context, guildID uint64) (channels *types.GuildChannels, found bool, err error) {
	rows, err := m.store.List(ctx, guildID)
	if err != nil {
		return nil, false, err
	}

	if len(rows) == 0 {
		return &types.GuildChannels{GuildID: guildID}, false, nil
	}
	return rows[0], true, nil
}

// Set assigns a channel to a role.
func (m *ChannelModel) Set(ctx context.Context, guildID uint64, role enum.ChannelRole, channelID uint64) error {
	err := m.store.Update(ctx, guildID, func(rows []*types.GuildChannels) ([]*types.GuildChannels, error) {
		channels := &types.GuildChannels{GuildID: guildID}
		if len(rows) > 0 {
			channels = rows[0]
		}

		channels.Set(role, channelID)
		return []*types.GuildChannels{channels}, nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Set channel",
		zap.Uint64("guildID", guildID),
		zap.String("role", role.String()),
		zap.Uint64("channelID", channelID))

	return nil
}

// Guilds lists every guild with a channel container.
func (m *ChannelModel) Guilds(ctx context.Context) ([]uint64, error) {
	return m.store.Guilds(ctx)
}

// Ensure creates the channel container with every role unset if absent.
func (m *ChannelModel) Ensure(ctx context.Context, guildID uint64) (bool, error) {
	return m.store.Ensure(ctx, guildID, []*types.GuildChannels{{GuildID: guildID}})
}

// ReplaceAll overwrites the channel rows of a guild.
func (m *ChannelModel) ReplaceAll(ctx context.Context, guildID uint64, rows []*types.GuildChannels) error {
	return m.store.ReplaceAll(ctx, guildID, rows)
}
