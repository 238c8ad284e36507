package commands

import (
	"errors"

	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var (
	ErrNameRequired           = errors.New("NAME argument required")
	ErrGuildIDRequired        = errors.New("GUILD_ID argument required")
	ErrInvalidGuildID         = errors.New("invalid guild ID: must be a number")
	ErrMigrationsNeedPostgres = errors.New("migrations are only used by the postgres backend")
	ErrRollbackNotConfirmed   = errors.New("rollback drops data; pass --yes to confirm")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	Config   *config.Config
	DB       database.Client
	Migrator *migrate.Migrator // nil unless the postgres backend is configured
	Logger   *zap.Logger
}
