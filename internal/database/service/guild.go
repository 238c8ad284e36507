package service

import (
	"context"
	"fmt"

	"github.com/robalyx/tribunal/internal/database/models"
	"go.uber.org/zap"
)

// GuildService handles guild lifecycle logic.
type GuildService struct {
	banModel     *models.BanModel
	appealModel  *models.AppealModel
	settingModel *models.SettingModel
	channelModel *models.ChannelModel
	logger       *zap.Logger
}

// NewGuild creates a new guild service.
func NewGuild(
	banModel *models.BanModel,
	appealModel *models.AppealModel,
	settingModel *models.SettingModel,
	channelModel *models.ChannelModel,
	logger *zap.Logger,
) *GuildService {
	return &GuildService{
		banModel:     banModel,
		appealModel:  appealModel,
		settingModel: settingModel,
		channelModel: channelModel,
		logger:       logger.Named("guild_service"),
	}
}

// Initialize creates the default containers of every kind for a guild.
// Existing containers are left untouched.
func (s *GuildService) Initialize(ctx context.Context, guildID uint64) error {
	steps := []struct {
		name   string
		ensure func(context.Context, uint64) (bool, error)
	}{
		{"channels", s.channelModel.Ensure},
		{"settings", s.settingModel.Ensure},
		{"bans", s.banModel.Ensure},
		{"appeals", s.appealModel.Ensure},
	}

	var created []string
	for _, step := range steps {
		ok, err := step.ensure(ctx, guildID)
		if err != nil {
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		if ok {
			created = append(created, step.name)
		}
	}

	if len(created) > 0 {
		s.logger.Info("Initialized guild stores",
			zap.Uint64("guildID", guildID),
			zap.Strings("created", created))
	}

	return nil
}
