package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/rueidis"
	"github.com/robalyx/tribunal/internal/setup/config"
	"go.uber.org/zap"
)

// Database is a Redis logical database number.
type Database int

// StatusDatabase holds worker heartbeats.
const StatusDatabase Database = 4

// Manager hands out one lazily created client per logical database.
type Manager struct {
	cfg    *config.Redis
	logger *zap.Logger

	mu      sync.Mutex
	clients map[Database]rueidis.Client
}

// NewManager creates a manager. No connection is made until a client is requested.
func NewManager(cfg *config.Redis, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		logger:  logger.Named("redis"),
		clients: make(map[Database]rueidis.Client),
	}
}

// Enabled reports whether Redis is configured for use.
func (m *Manager) Enabled() bool {
	return m.cfg.Enabled
}

// Client returns the client for db, creating it on first use.
func (m *Manager) Client(db Database) (rueidis.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, ok := m.clients[db]; ok {
		return client, nil
	}

	// Heartbeats are written far more often than read, so skip client side caching
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)},
		Username:     m.cfg.Username,
		Password:     m.cfg.Password,
		SelectDB:     int(db),
		ClientName:   "tribunal",
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis db %d: %w", db, err)
	}

	m.clients[db] = client
	m.logger.Debug("Connected to Redis", zap.Int("db", int(db)))
	return client, nil
}

// StatusClient returns the heartbeat client, or nil when Redis is disabled.
func (m *Manager) StatusClient() (rueidis.Client, error) {
	if !m.cfg.Enabled {
		return nil, nil
	}
	return m.Client(StatusDatabase)
}

// Ping checks that db answers.
func (m *Manager) Ping(ctx context.Context, db Database) error {
	client, err := m.Client(db)
	if err != nil {
		return err
	}
	return client.Do(ctx, client.B().Ping().Build()).Error()
}

// Close closes every client. The manager can be reused afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for db, client := range m.clients {
		client.Close()
		delete(m.clients, db)
	}
}
