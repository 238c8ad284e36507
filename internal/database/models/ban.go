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

// BanModel handles storage operations for guild bans.
type BanModel struct {
	store  *store.Store[types.GuildBan, *types.GuildBan]
	logger *zap.Logger
}

// NewBan creates a new ban model instance.
func NewBan(b backend.Backend, locks *lock.KeyedMutex, logger *zap.Logger) *BanModel {
	return &BanModel{
		store:  store.New[types.GuildBan](enum.KindBan, b, locks, logger),
		logger: logger.Named("db_ban"),
	}
}

// Record stores a ban, replacing any existing ban for the same user.
func (m *BanModel) Record(ctx context.Context, ban *types.GuildBan) error {
	err := m.store.Update(ctx, ban.GuildID, func(bans []*types.GuildBan) ([]*types.GuildBan, error) {
		next := make([]*types.GuildBan, 0, len(bans)+1)
		for _, existing := range bans {
			if existing.UserID != ban.UserID {
				next = append(next, existing)
			}
		}
		return append(next, ban), nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Recorded ban",
		zap.Uint64("guildID", ban.GuildID),
		zap.Uint64("userID", ban.UserID),
		zap.Time("bannedAt", ban.BannedAt))

	return nil
}

// List returns every ban of a guild.
func (m *BanModel) List(ctx context.Context, guildID uint64) ([]*types.GuildBan, error) {
	return m.store.List(ctx, guildID)
}

// Get returns the ban of a user, or nil if there is none.
func (m *BanModel) Get(ctx context.Context, guildID, userID uint64) (*types.GuildBan, error) {
	bans, err := m.store.List(ctx, guildID)
	if err != nil {
		return nil, err
	}

	for _, ban := range bans {
		if ban.UserID == userID {
			return ban, nil
		}
	}
	return nil, nil //nolint:nilnil // absence is not an error
}

// Remove deletes the ban of a user. Reports whether a ban was removed.
func (m *BanModel) Remove(ctx context.Context, guildID, userID uint64) (bool, error) {
	removed, err := m.store.RemoveWhere(ctx, guildID, func(ban *types.GuildBan) bool {
		return ban.UserID == userID
	})
	if err != nil {
		return false, err
	}

	if len(removed) > 0 {
		m.logger.Debug("Removed ban",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID))
	}

	return len(removed) > 0, nil
}

// SetStatus changes the status of a user's ban. Reports whether the ban exists.
func (m *BanModel) SetStatus(ctx context.Context, guildID, userID uint64, status enum.BanStatus) (bool, error) {
	var found bool
	err := m.store.Update(ctx, guildID, func(bans []*types.GuildBan) ([]*types.GuildBan, error) {
		for _, ban := range bans {
			if ban.UserID == userID {
				found = true
				if ban.Status == status {
					return nil, store.ErrNoChange
				}
				ban.Status = status
				return bans, nil
			}
		}
		return nil, store.ErrNoChange
	})
	if err != nil {
		return false, err
	}

	if found {
		m.logger.Debug("Updated ban status",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID),
			zap.String("status", status.String()))
	}

	return found, nil
}

// Guilds lists every guild with a ban container.
func (m *BanModel) Guilds(ctx context.Context) ([]uint64, error) {
	return m.store.Guilds(ctx)
}

// Ensure creates an empty ban container for a guild if absent.
func (m *BanModel) Ensure(ctx context.Context, guildID uint64) (bool, error) {
	return m.store.Ensure(ctx, guildID, nil)
}

// ReplaceAll overwrites every ban of a guild.
func (m *BanModel) ReplaceAll(ctx context.Context, guildID uint64, bans []*types.GuildBan) error {
	return m.store.ReplaceAll(ctx, guildID, bans)
}
