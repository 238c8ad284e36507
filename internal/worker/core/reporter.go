package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// StatusReporter publishes a worker's heartbeat every HeartbeatInterval.
// With a nil client it only tracks the status locally.
type StatusReporter struct {
	monitor *Monitor
	logger  *zap.Logger

	mu      sync.Mutex
	status  Status
	stop    chan struct{}
	stopped bool
}

// NewStatusReporter creates a reporter with a fresh worker ID.
func NewStatusReporter(client rueidis.Client, workerType, subType string, logger *zap.Logger) *StatusReporter {
	r := &StatusReporter{
		logger: logger.Named("status_reporter"),
		status: Status{
			WorkerID:   uuid.New().String(),
			WorkerType: workerType,
			SubType:    subType,
			IsHealthy:  true,
		},
		stop: make(chan struct{}),
	}

	if client != nil {
		r.monitor = NewMonitor(client, logger)
	}

	return r
}

// Start reports immediately and then on every heartbeat until ctx is done
// or Stop is called.
func (r *StatusReporter) Start(ctx context.Context) {
	r.mu.Lock()
	skip := r.stopped || r.monitor == nil
	r.mu.Unlock()

	if skip {
		return
	}

	go func() {
		ticker := time.NewTicker(HeartbeatInterval)
		defer ticker.Stop()

		for {
			r.report(ctx)

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends status reporting. It is safe to call more than once.
func (r *StatusReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.stopped {
		close(r.stop)
		r.stopped = true
	}
}

// UpdateStatus sets the current task and its progress in percent.
func (r *StatusReporter) UpdateStatus(task string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.CurrentTask = task
	r.status.Progress = progress
}

// SetHealthy updates the health flag. Becoming healthy clears the last error.
func (r *StatusReporter) SetHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.IsHealthy = healthy
	if healthy {
		r.status.LastError = ""
	}
}

// RecordError marks the worker unhealthy and keeps err for operators.
func (r *StatusReporter) RecordError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.IsHealthy = false
	r.status.LastError = err.Error()
}

// GetWorkerID returns the unique worker ID.
func (r *StatusReporter) GetWorkerID() string {
	return r.status.WorkerID
}

// Snapshot returns a copy of the current status.
func (r *StatusReporter) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

func (r *StatusReporter) report(ctx context.Context) {
	if err := r.monitor.ReportStatus(ctx, r.Snapshot()); err != nil {
		r.logger.Error("Failed to report status", zap.Error(err))
	}
}
