package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/rueidis"
	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/backend/postgres"
	"github.com/robalyx/tribunal/internal/database/migrations"
	"github.com/robalyx/tribunal/internal/redis"
	"github.com/robalyx/tribunal/internal/setup/config"
	"github.com/robalyx/tribunal/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// tracingShutdownTimeout bounds the final span flush.
const tracingShutdownTimeout = 5 * time.Second

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	ConfigDir    string             // Directory the config files were loaded from
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Record store
	RedisManager *redis.Manager     // Redis connection manager
	StatusClient rueidis.Client     // Redis client for worker status reporting, nil when disabled
	LogManager   *telemetry.Manager // Log management system

	shutdownTracing func(context.Context) error
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType) (*App, error) {
	// Load app configuration
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Tracing providers must exist before the loggers create their tracers
	shutdownTracing := telemetry.ConfigureTracing(serviceType, &cfg.Common.Debug)

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, &cfg.Common.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for various subsystems
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	db, err := database.NewConnection(ctx, &cfg.Common, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	warnPendingMigrations(ctx, db, logger)

	// Get Redis client for worker status reporting
	statusClient, err := redisManager.StatusClient()
	if err != nil {
		_ = db.Close()
		redisManager.Close()
		return nil, err
	}

	logger.Info("Application initialized",
		zap.String("service", serviceType.String()),
		zap.String("instanceID", logManager.GetInstanceID()),
		zap.String("configDir", configDir),
		zap.String("backend", cfg.Common.Storage.Backend),
		zap.Bool("redis", redisManager.Enabled()))

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		ConfigDir:    configDir,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		StatusClient: statusClient,
		LogManager:   logManager,

		shutdownTracing: shutdownTracing,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup() {
	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close record store: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()

	// Flush pending spans
	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
	defer cancel()

	if err := s.shutdownTracing(ctx); err != nil {
		log.Printf("Failed to shut down tracing: %v", err)
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}
}

// warnPendingMigrations logs unapplied migrations when the postgres backend
// runs without auto_migrate.
func warnPendingMigrations(ctx context.Context, db database.Client, logger *zap.Logger) {
	pg, ok := db.Backend().(*postgres.Backend)
	if !ok {
		return
	}

	migrator := migrate.NewMigrator(pg.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		logger.Warn("Failed to check migration status", zap.Error(err))
		return
	}

	if unapplied := ms.Unapplied(); len(unapplied) > 0 {
		logger.Warn("Database migrations are pending, run `db migrate`",
			zap.String("pending", fmt.Sprint(unapplied)))
	}
}
