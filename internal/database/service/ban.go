package service

import (
	"context"
	"time"

	"github.com/robalyx/tribunal/internal/database/models"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
)

// BanService handles ban-related business logic.
type BanService struct {
	banModel    *models.BanModel
	appealModel *models.AppealModel
	logger      *zap.Logger
}

// NewBan creates a new ban service.
func NewBan(banModel *models.BanModel, appealModel *models.AppealModel, logger *zap.Logger) *BanService {
	return &BanService{
		banModel:    banModel,
		appealModel: appealModel,
		logger:      logger.Named("ban_service"),
	}
}

// RecordBan stores a new active ban for a user, replacing any previous one.
func (s *BanService) RecordBan(
	ctx context.Context, guildID, userID uint64, reason string, bannedAt time.Time,
) error {
	ban := &types.GuildBan{
		GuildID:  guildID,
		UserID:   userID,
		Reason:   reason,
		BannedAt: bannedAt,
		Status:   enum.BanStatusActive,
	}

	if err := s.banModel.Record(ctx, ban); err != nil {
		return err
	}

	s.logger.Info("Ban recorded",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.String("reason", reason))

	return nil
}

// ClearBan removes the ban record of a user along with any open appeal.
// Reports whether a ban record existed.
func (s *BanService) ClearBan(ctx context.Context, guildID, userID uint64) (bool, error) {
	removed, err := s.banModel.Remove(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	if _, err := s.appealModel.RemoveUser(ctx, guildID, userID); err != nil {
		return removed, err
	}

	if removed {
		s.logger.Info("Ban cleared",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID))
	}

	return removed, nil
}

// IsRecorded reports whether the user has a ban record in the guild.
func (s *BanService) IsRecorded(ctx context.Context, guildID, userID uint64) (bool, error) {
	ban, err := s.banModel.Get(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	return ban != nil, nil
}
