package service

import (
	"context"
	"time"

	"github.com/robalyx/tribunal/internal/database/models"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
)

// SettingService handles settings-related business logic.
type SettingService struct {
	model  *models.SettingModel
	logger *zap.Logger
}

// NewSetting creates a new setting service.
func NewSetting(model *models.SettingModel, logger *zap.Logger) *SettingService {
	return &SettingService{
		model:  model,
		logger: logger.Named("setting_service"),
	}
}

// Get returns a single setting as a raw integer. It never fails: a missing
// container, an unreadable row or an unknown field all report
// types.SettingDisabled so callers treat the feature as off.
func (s *SettingService) Get(ctx context.Context, guildID uint64, field enum.SettingField) int64 {
	settings, found, err := s.model.Get(ctx, guildID)
	if err != nil {
		s.logger.Warn("Failed to read guild settings",
			zap.Uint64("guildID", guildID),
			zap.String("field", field.String()),
			zap.Error(err))
		return types.SettingDisabled
	}

	if !found {
		return types.SettingDisabled
	}

	return settings.Field(field)
}

// Settings returns the typed settings of a guild. Missing settings read as
// zero defaults.
func (s *SettingService) Settings(ctx context.Context, guildID uint64) (*types.GuildSettings, error) {
	settings, _, err := s.model.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SetAppealDelay stores the appeal delay, clamped to [0, MaxAppealDelay].
// Returns the value actually stored.
func (s *SettingService) SetAppealDelay(ctx context.Context, guildID uint64, delay time.Duration) (time.Duration, error) {
	delay = clampDelay(delay)

	err := s.model.Update(ctx, guildID, func(settings *types.GuildSettings) {
		settings.AppealDelay = delay
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Appeal delay updated",
		zap.Uint64("guildID", guildID),
		zap.Duration("delay", delay))

	return delay, nil
}

// SetBanMessages stores whether unbans are announced in main and sent by DM.
func (s *SettingService) SetBanMessages(ctx context.Context, guildID uint64, announceInMain, notifyByDM bool) error {
	err := s.model.Update(ctx, guildID, func(settings *types.GuildSettings) {
		settings.AnnounceInMain = announceInMain
		settings.NotifyByDM = notifyByDM
	})
	if err != nil {
		return err
	}

	s.logger.Info("Ban messages updated",
		zap.Uint64("guildID", guildID),
		zap.Bool("announceInMain", announceInMain),
		zap.Bool("notifyByDM", notifyByDM))

	return nil
}

// SetVerification stores the verification delay and role.
func (s *SettingService) SetVerification(
	ctx context.Context, guildID uint64, delay time.Duration, roleID uint64,
) error {
	delay = clampDelay(delay)

	err := s.model.Update(ctx, guildID, func(settings *types.GuildSettings) {
		settings.VerificationDelay = delay
		settings.VerificationRoleID = roleID
	})
	if err != nil {
		return err
	}

	s.logger.Info("Verification updated",
		zap.Uint64("guildID", guildID),
		zap.Duration("delay", delay),
		zap.Uint64("roleID", roleID))

	return nil
}

func clampDelay(delay time.Duration) time.Duration {
	return min(max(delay, 0), types.MaxAppealDelay)
}
