package database

import (
	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/robalyx/tribunal/internal/database/models"
	"go.uber.org/zap"
)

// Repository provides access to all record models.
type Repository struct {
	ban     *models.BanModel
	appeal  *models.AppealModel
	setting *models.SettingModel
	channel *models.ChannelModel
}

// NewRepository creates a new repository instance with all models.
// The models share one keyed mutex so every (kind, guild) has a single owner.
func NewRepository(b backend.Backend, logger *zap.Logger) *Repository {
	locks := lock.NewKeyedMutex()

	return &Repository{
		ban:     models.NewBan(b, locks, logger),
		appeal:  models.NewAppeal(b, locks, logger),
		setting: models.NewSetting(b, locks, logger),
		channel: models.NewChannel(b, locks, logger),
	}
}

// Ban returns the ban model repository.
func (r *Repository) Ban() *models.BanModel {
	return r.ban
}

// Appeal returns the appeal model repository.
func (r *Repository) Appeal() *models.AppealModel {
	return r.appeal
}

// Setting returns the setting model repository.
func (r *Repository) Setting() *models.SettingModel {
	return r.setting
}

// Channel returns the channel model repository.
func (r *Repository) Channel() *models.ChannelModel {
	return r.channel
}
