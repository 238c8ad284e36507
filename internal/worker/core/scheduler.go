package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Scheduler runs periodic jobs and one-off tasks on a fixed-size worker pool.
// A periodic job is re-armed only after its run finishes, so runs of the same
// job never overlap and a slow run delays the next one.
type Scheduler struct {
	pool    *pool.Pool
	ctx     context.Context
	cancel  context.CancelFunc
	timers  []*time.Timer
	mu      sync.RWMutex
	stopped atomic.Bool
	logger  *zap.Logger
}

// NewScheduler creates a scheduler backed by size goroutines.
func NewScheduler(size int, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pool:   pool.New().WithMaxGoroutines(max(size, 1)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.Named("scheduler"),
	}
}

// Every runs fn after initialDelay and then interval after each run completes.
func (s *Scheduler) Every(name string, initialDelay, interval time.Duration, fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(initialDelay, func() {
		s.Submit(name, func(ctx context.Context) {
			fn(ctx)

			if !s.stopped.Load() {
				timer.Reset(interval)
			}
		})
	})
	s.timers = append(s.timers, timer)

	s.logger.Info("Scheduled periodic job",
		zap.String("job", name),
		zap.Duration("initialDelay", initialDelay),
		zap.Duration("interval", interval))
}

// Submit queues a one-off task. It blocks while every worker is busy and
// reports false when the scheduler is already stopped.
func (s *Scheduler) Submit(name string, fn func(context.Context)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped.Load() {
		return false
	}

	s.pool.Go(func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Task panicked",
					zap.String("task", name),
					zap.String("panic", fmt.Sprint(r)),
					zap.String("stack", string(debug.Stack())))
				return
			}

			s.logger.Debug("Task finished",
				zap.String("task", name),
				zap.Duration("duration", time.Since(start)))
		}()

		fn(s.ctx)
	})

	return true
}

// Stop cancels running tasks, disarms periodic jobs and waits for the pool to drain.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	if s.stopped.Swap(true) {
		s.mu.Unlock()
		return
	}
	for _, timer := range s.timers {
		timer.Stop()
	}
	s.mu.Unlock()

	s.pool.Wait()
	s.logger.Info("Scheduler stopped")
}
