package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/tribunal/pkg/utils"
	"go.uber.org/zap"
)

const (
	// HeartbeatInterval is how often a reporter refreshes its status.
	HeartbeatInterval = 10 * time.Second

	// HeartbeatTTL is how long a status survives without a refresh.
	HeartbeatTTL = 10 * time.Minute

	// StaleThreshold is how long a worker may stay silent before it is shown as stale.
	StaleThreshold = time.Minute

	statusKeyPrefix = "tribunal:worker:"
	scanCount       = 100
)

// Status is the heartbeat a worker publishes.
type Status struct {
	WorkerID    string    `json:"workerId"`
	WorkerType  string    `json:"workerType"`
	SubType     string    `json:"subType"`
	LastSeen    time.Time `json:"lastSeen"`
	CurrentTask string    `json:"currentTask,omitempty"`
	Progress    int       `json:"progress"`
	IsHealthy   bool      `json:"isHealthy"`
	LastError   string    `json:"lastError,omitempty"`
}

// IsStale reports whether the worker has not been seen recently.
func (s Status) IsStale(now time.Time) bool {
	return now.Sub(s.LastSeen) > StaleThreshold
}

// Key returns the Redis key holding the status.
func (s Status) Key() string {
	return statusKeyPrefix + s.WorkerType + ":" + s.SubType + ":" + s.WorkerID
}

// Monitor stores and lists worker heartbeats in Redis.
type Monitor struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewMonitor creates a new worker status monitor.
func NewMonitor(client rueidis.Client, logger *zap.Logger) *Monitor {
	return &Monitor{
		client: client,
		logger: logger.Named("worker_monitor"),
	}
}

// ReportStatus stores the status with a fresh LastSeen. The key expires
// after HeartbeatTTL unless it is reported again.
func (m *Monitor) ReportStatus(ctx context.Context, status Status) error {
	status.LastSeen = time.Now()

	data, err := sonic.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	cmd := m.client.B().Set().Key(status.Key()).Value(rueidis.BinaryString(data)).Ex(HeartbeatTTL).Build()
	if err := m.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store status: %w", err)
	}

	return nil
}

// GetAllStatuses lists every live heartbeat. Entries that cannot be
// decoded are logged and skipped.
func (m *Monitor) GetAllStatuses(ctx context.Context) ([]Status, error) {
	keys, err := m.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// One GET per key; the keys may live in different cluster slots
	cmds := make(rueidis.Commands, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, m.client.B().Get().Key(key).Build())
	}

	statuses := make([]Status, 0, len(keys))
	for i, resp := range m.client.DoMulti(ctx, cmds...) {
		data, err := resp.AsBytes()
		if err != nil {
			// Expired between SCAN and GET
			if rueidis.IsRedisNil(err) {
				continue
			}
			if utils.ContextGuard(ctx) {
				return nil, fmt.Errorf("failed to get worker statuses: %w", err)
			}
			m.logger.Warn("Failed to read worker status", zap.String("key", keys[i]), zap.Error(err))
			continue
		}

		var status Status
		if err := sonic.Unmarshal(data, &status); err != nil {
			m.logger.Warn("Failed to unmarshal worker status", zap.String("key", keys[i]), zap.Error(err))
			continue
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (m *Monitor) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)

	for {
		cmd := m.client.B().Scan().Cursor(cursor).Match(statusKeyPrefix + "*").Count(scanCount).Build()
		entry, err := m.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker keys: %w", err)
		}

		keys = append(keys, entry.Elements...)
		if entry.Cursor == 0 {
			return keys, nil
		}
		cursor = entry.Cursor
	}
}
