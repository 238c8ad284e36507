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

// SettingModel handles storage operations for guild settings.
type SettingModel struct {
	store  *store.Store[types.GuildSettings, *types.GuildSettings]
	logger *zap.Logger
}

// NewSetting creates a new setting model instance.
func NewSetting(b backend.Backend, locks *lock.KeyedMutex, logger *zap.Logger) *SettingModel {
	return &SettingModel{
		store:  store.New[types.GuildSettings](enum.KindSettings, b, locks, logger),
		logger: logger.Named("db_setting"),
	}
}

// Get returns the settings of a guild. found is false when the container is
// missing or holds no readable row.
func (m *SettingModel) Get(ctx context.Context, guildID uint64) (settings *types.GuildSettings, found bool, err error) {
	rows, err := m.store.List(ctx, guildID)
	if err != nil {
		return nil, false, err
	}

	if len(rows) == 0 {
		return &types.GuildSettings{GuildID: guildID}, false, nil
	}
	return rows[0], true, nil
}

// Update applies fn to the guild's settings and stores the result as the
// single settings row. Missing settings start from zero defaults.
func (m *SettingModel) Update(ctx context.Context, guildID uint64, fn func(*types.GuildSettings)) error {
	err := m.store.Update(ctx, guildID, func(rows []*types.GuildSettings) ([]*types.GuildSettings, error) {
		settings := &types.GuildSettings{GuildID: guildID}
		if len(rows) > 0 {
			settings = rows[0]
		}

		fn(settings)
		return []*types.GuildSettings{settings}, nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Updated guild settings", zap.Uint64("guildID", guildID))
	return nil
}

// Guilds lists every guild with a settings container.
func (m *SettingModel) Guilds(ctx context.Context) ([]uint64, error) {
	return m.store.Guilds(ctx)
}

// Ensure creates the settings container with zero defaults if absent.
func (m *SettingModel) Ensure(ctx context.Context, guildID uint64) (bool, error) {
	return m.store.Ensure(ctx, guildID, []*types.GuildSettings{{GuildID: guildID}})
}

// ReplaceAll overwrites the settings rows of a guild.
func (m *SettingModel) ReplaceAll(ctx context.Context, guildID uint64, rows []*types.GuildSettings) error {
	return m.store.ReplaceAll(ctx, guildID, rows)
}
