package database

import (
	"github.com/robalyx/tribunal/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	setting *service.SettingService
	channel *service.ChannelService
	guild   *service.GuildService
	ban     *service.BanService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	banModel := repository.Ban()
	appealModel := repository.Appeal()
	settingModel := repository.Setting()
	channelModel := repository.Channel()

	return &Service{
		setting: service.NewSetting(settingModel, logger),
		channel: service.NewChannel(channelModel, logger),
		guild:   service.NewGuild(banModel, appealModel, settingModel, channelModel, logger),
		ban:     service.NewBan(banModel, appealModel, logger),
	}
}

// Setting returns the setting service.
func (s *Service) Setting() *service.SettingService {
	return s.setting
}

// Channel returns the channel service.
func (s *Service) Channel() *service.ChannelService {
	return s.channel
}

// Guild returns the guild service.
func (s *Service) Guild() *service.GuildService {
	return s.guild
}

// Ban returns the ban service.
func (s *Service) Ban() *service.BanService {
	return s.ban
}
