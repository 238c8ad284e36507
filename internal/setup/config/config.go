package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrUnknownBackend        = errors.New("unknown storage backend")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared between the bot and the db tool.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Storage    Storage    `koanf:"storage"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
	// Background scheduling configuration.
	Scheduler Scheduler `koanf:"scheduler"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Directory that holds the log sessions.
	LogDir string `koanf:"log_dir"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Forward error logs to OpenTelemetry.
	EnableTracing bool `koanf:"enable_tracing"`
	// Uptrace DSN that receives the traces, prefer TRIBUNAL_UPTRACE_DSN.
	UptraceDSN string `koanf:"uptrace_dsn"`
}

// Storage selects and configures the record store backend.
type Storage struct {
	// Backend name (file, sqlite, postgres).
	Backend string `koanf:"backend"`
	// Root directory of the CSV stores for the file backend.
	DataDir string `koanf:"data_dir"`
	// Database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`
	// Connection pool size for the sqlite backend.
	SQLitePoolSize int `koanf:"sqlite_pool_size"`
	// Run pending migrations on startup for the postgres backend.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Report worker status to Redis.
	Enabled bool `koanf:"enabled"`
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
	// Register commands in these guilds only instead of globally.
	CommandGuildIDs []uint64 `koanf:"command_guild_ids"`
}

// Scheduler configures the worker pool and the periodic jobs.
type Scheduler struct {
	// Number of goroutines shared by periodic jobs and commands.
	PoolSize int `koanf:"pool_size"`
	// Seconds between appeal sweeps.
	SweepInterval int `koanf:"sweep_interval"`
	// Seconds before the first appeal sweep.
	SweepInitialDelay int `koanf:"sweep_initial_delay"`
	// Seconds a single guild may take during a sweep.
	GuildTimeout int `koanf:"guild_timeout"`
	// Guilds processed concurrently during a sweep.
	SweepConcurrency int `koanf:"sweep_concurrency"`
	// Check the platform ban list before opening an appeal.
	VerifyPlatformBans bool `koanf:"verify_platform_bans"`
	// Seconds between presence changes.
	PresenceInterval int `koanf:"presence_interval"`
	// Seconds before the first presence change.
	PresenceInitialDelay int `koanf:"presence_initial_delay"`
	// File listing the presence activities.
	ActivitiesFile string `koanf:"activities_file"`
}

// secrets are read from the environment and override the config files.
type secrets struct {
	DiscordToken     string `env:"TRIBUNAL_DISCORD_TOKEN"`
	PostgresPassword string `env:"TRIBUNAL_POSTGRES_PASSWORD"`
	RedisPassword    string `env:"TRIBUNAL_REDIS_PASSWORD"`
	UptraceDSN       string `env:"TRIBUNAL_UPTRACE_DSN"`
}

// LoadConfig loads the configuration from the default search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	return LoadConfigFrom([]string{
		".tribunal",
		homeDir + "/.tribunal/config",
		"/etc/tribunal/config",
		"/app/config",
		"config",
		".",
	})
}

// LoadConfigFrom loads the configuration from the given search paths.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Load all config files
	var usedConfigPath string

	configFiles := []string{"common", "bot"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	// Overlay secrets from the environment
	if err := applySecrets(&config); err != nil {
		return nil, "", err
	}

	applyDefaults(&config)

	switch config.Common.Storage.Backend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownBackend, config.Common.Storage.Backend)
	}

	return &config, usedConfigPath, nil
}

// applySecrets overrides config values with any secrets set in the environment.
func applySecrets(config *Config) error {
	var s secrets
	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if s.DiscordToken != "" {
		config.Bot.Discord.Token = s.DiscordToken
	}
	if s.PostgresPassword != "" {
		config.Common.PostgreSQL.Password = s.PostgresPassword
	}
	if s.RedisPassword != "" {
		config.Common.Redis.Password = s.RedisPassword
	}
	if s.UptraceDSN != "" {
		config.Common.Debug.UptraceDSN = s.UptraceDSN
	}

	return nil
}

// applyDefaults fills unset values.
func applyDefaults(config *Config) {
	storage := &config.Common.Storage
	if storage.Backend == "" {
		storage.Backend = BackendFile
	}
	if storage.DataDir == "" {
		storage.DataDir = "data"
	}
	if storage.SQLitePath == "" {
		storage.SQLitePath = "tribunal.db"
	}
	if storage.SQLitePoolSize <= 0 {
		storage.SQLitePoolSize = 4
	}

	debug := &config.Common.Debug
	if debug.LogLevel == "" {
		debug.LogLevel = "info"
	}
	if debug.LogDir == "" {
		debug.LogDir = "logs"
	}
	if debug.MaxLogsToKeep <= 0 {
		debug.MaxLogsToKeep = 10
	}
	if debug.MaxLogLines <= 0 {
		debug.MaxLogLines = 100000
	}

	if config.Bot.RequestTimeout <= 0 {
		config.Bot.RequestTimeout = 10000
	}

	scheduler := &config.Bot.Scheduler
	if scheduler.PoolSize <= 0 {
		scheduler.PoolSize = 8
	}
	if scheduler.SweepInterval <= 0 {
		scheduler.SweepInterval = 43200
	}
	if scheduler.SweepInitialDelay <= 0 {
		scheduler.SweepInitialDelay = 10
	}
	if scheduler.GuildTimeout <= 0 {
		scheduler.GuildTimeout = 120
	}
	if scheduler.SweepConcurrency <= 0 {
		scheduler.SweepConcurrency = 4
	}
	if scheduler.PresenceInterval <= 0 {
		scheduler.PresenceInterval = 300
	}
	if scheduler.PresenceInitialDelay <= 0 {
		scheduler.PresenceInitialDelay = 3
	}
	if scheduler.ActivitiesFile == "" {
		scheduler.ActivitiesFile = "activities.txt"
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/tribunal/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
