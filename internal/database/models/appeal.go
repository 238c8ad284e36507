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

// AppealModel handles storage operations for appeal polls.
type AppealModel struct {
	store  *store.Store[types.GuildAppeal, *types.GuildAppeal]
	logger *zap.Logger
}

// NewAppeal creates a new appeal model instance.
func NewAppeal(b backend.Backend, locks *lock.KeyedMutex, logger *zap.Logger) *AppealModel {
	return &AppealModel{
		store:  store.New[types.GuildAppeal](enum.KindAppeal, b, locks, logger),
		logger: logger.Named("db_appeal"),
	}
}

// Create stores a new appeal. It fails with types.ErrAppealExists when the
// user already has an appeal in the guild.
func (m *AppealModel) Create(ctx context.Context, appeal *types.GuildAppeal) error {
	err := m.store.Update(ctx, appeal.GuildID, func(appeals []*types.GuildAppeal) ([]*types.GuildAppeal, error) {
		for _, existing := range appeals {
			if existing.UserID == appeal.UserID {
				return nil, types.ErrAppealExists
			}
		}
		return append(appeals, appeal), nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Created appeal",
		zap.Uint64("guildID", appeal.GuildID),
		zap.Uint64("userID", appeal.UserID),
		zap.Uint64("pollMessageID", appeal.PollMessageID),
		zap.Time("expiresAt", appeal.ExpiresAt))

	return nil
}

// List returns every appeal of a guild.
func (m *AppealModel) List(ctx context.Context, guildID uint64) ([]*types.GuildAppeal, error) {
	return m.store.List(ctx, guildID)
}

// AttachPoll records the poll message of a tentative appeal.
// Reports whether the tentative appeal still existed.
func (m *AppealModel) AttachPoll(ctx context.Context, guildID, userID, pollMessageID uint64) (bool, error) {
	var attached bool
	err := m.store.Update(ctx, guildID, func(appeals []*types.GuildAppeal) ([]*types.GuildAppeal, error) {
		for _, appeal := range appeals {
			if appeal.UserID == userID && appeal.IsTentative() {
				appeal.PollMessageID = pollMessageID
				attached = true
				return appeals, nil
			}
		}
		return nil, store.ErrNoChange
	})
	if err != nil {
		return false, err
	}

	return attached, nil
}

// Remove deletes the given appeal if it is still stored unchanged.
// Returns nil when another caller already removed or replaced it.
func (m *AppealModel) Remove(ctx context.Context, appeal *types.GuildAppeal) (*types.GuildAppeal, error) {
	removed, err := m.store.RemoveWhere(ctx, appeal.GuildID, func(a *types.GuildAppeal) bool {
		return a.UserID == appeal.UserID && a.PollMessageID == appeal.PollMessageID
	})
	if err != nil {
		return nil, err
	}

	if len(removed) == 0 {
		return nil, nil //nolint:nilnil // already gone
	}

	m.logger.Debug("Removed appeal",
		zap.Uint64("guildID", appeal.GuildID),
		zap.Uint64("userID", appeal.UserID))

	return removed[0], nil
}

// RemoveUser deletes any appeal of a user. Reports whether one was removed.
func (m *AppealModel) RemoveUser(ctx context.Context, guildID, userID uint64) (bool, error) {
	removed, err := m.store.RemoveWhere(ctx, guildID, func(a *types.GuildAppeal) bool {
		return a.UserID == userID
	})
	if err != nil {
		return false, err
	}
	return len(removed) > 0, nil
}

// Guilds lists every guild with an appeal container.
func (m *AppealModel) Guilds(ctx context.Context) ([]uint64, error) {
	return m.store.Guilds(ctx)
}

// Ensure creates an empty appeal container for a guild if absent.
func (m *AppealModel) Ensure(ctx context.Context, guildID uint64) (bool, error) {
	return m.store.Ensure(ctx, guildID, nil)
}

// ReplaceAll overwrites every appeal of a guild.
func (m *AppealModel) ReplaceAll(ctx context.Context, guildID uint64, appeals []*types.GuildAppeal) error {
	return m.store.ReplaceAll(ctx, guildID, appeals)
}
