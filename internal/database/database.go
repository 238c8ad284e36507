package database

import (
	"context"
	"fmt"

	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/backend/postgres"
	"github.com/robalyx/tribunal/internal/database/backend/sqlite"
	"github.com/robalyx/tribunal/internal/setup/config"
	"go.uber.org/zap"
)

// Client defines the methods that a database client must implement.
type Client interface {
	// Model returns the repository containing all model operations.
	Model() *Repository
	// Service returns the service containing all service operations.
	Service() *Service
	// Backend returns the storage backend behind the models.
	Backend() backend.Backend
	// Close gracefully shuts down the backend.
	Close() error
}

// clientImpl represents the concrete implementation of the database client.
type clientImpl struct {
	backend backend.Backend
	logger  *zap.Logger
	repo    *Repository
	service *Service
}

// NewConnection opens the configured backend and returns a Client instance.
func NewConnection(ctx context.Context, cfg *config.CommonConfig, logger *zap.Logger) (Client, error) {
	b, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := NewClient(b, logger)
	logger.Info("Record store ready", zap.String("backend", cfg.Storage.Backend))

	return client, nil
}

// OpenBackend opens the storage backend selected in the config.
func OpenBackend(ctx context.Context, cfg *config.CommonConfig, logger *zap.Logger) (backend.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		b, err := file.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file backend: %w", err)
		}
		return b, nil

	case config.BackendSQLite:
		b, err := sqlite.New(ctx, cfg.Storage.SQLitePath, cfg.Storage.SQLitePoolSize, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		return b, nil

	case config.BackendPostgres:
		db := postgres.Open(&cfg.PostgreSQL, logger)
		b, err := postgres.New(ctx, db, logger, cfg.Storage.AutoMigrate)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open postgres backend: %w", err)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Storage.Backend)
	}
}

// NewClient wraps an open backend with the models and services.
func NewClient(b backend.Backend, logger *zap.Logger) Client {
	repo := NewRepository(b, logger)

	return &clientImpl{
		backend: b,
		logger:  logger,
		repo:    repo,
		service: NewService(repo, logger),
	}
}

// Close gracefully shuts down the backend.
func (c *clientImpl) Close() error {
	if err := c.backend.Close(); err != nil {
		c.logger.Error("Failed to close record store", zap.Error(err))
		return err
	}

	c.logger.Info("Record store closed")
	return nil
}

// Model returns the repository containing all model operations.
func (c *clientImpl) Model() *Repository {
	return c.repo
}

// Service returns the service containing all service operations.
func (c *clientImpl) Service() *Service {
	return c.service
}

// Backend returns the storage backend behind the models.
func (c *clientImpl) Backend() backend.Backend {
	return c.backend
}
