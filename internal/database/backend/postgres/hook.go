package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SlowQueryThreshold is the duration above which a successful query is
// logged at warn level.
const SlowQueryThreshold = 500 * time.Millisecond

// QueryLogger is a bun.QueryHook that logs every query with its duration.
type QueryLogger struct {
	logger    *zap.Logger
	threshold time.Duration
}

// NewQueryLogger creates a query logger warning about queries slower than
// threshold.
func NewQueryLogger(logger *zap.Logger, threshold time.Duration) *QueryLogger {
	return &QueryLogger{
		logger:    logger.Named("query"),
		threshold: threshold,
	}
}

func (q *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (q *QueryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.String("query", event.Query),
		zap.Duration("duration", time.Since(event.StartTime)),
	}

	switch {
	case errors.Is(event.Err, context.Canceled), errors.Is(event.Err, context.DeadlineExceeded):
		q.logger.Debug("Query abandoned", append(fields, zap.Error(event.Err))...)
	case event.Err != nil:
		q.logger.Error("Query failed", append(fields, zap.Error(event.Err))...)
	case time.Since(event.StartTime) > q.threshold:
		q.logger.Warn("Slow query", fields...)
	default:
		q.logger.Debug("Query executed", fields...)
	}
}
