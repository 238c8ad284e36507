// Package dbretry replays database work that failed for transient reasons.
package dbretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/robalyx/tribunal/pkg/utils"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Options is the retry policy for database work.
var Options = utils.RetryOptions{
	MaxElapsedTime:  30 * time.Second,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	MaxRetries:      5,
}

// retryableClasses are SQLSTATE classes, or full codes, that are transient.
var retryableClasses = []string{
	"08",    // connection exception
	"40001", // serialization failure
	"40P01", // deadlock detected
	"53",    // insufficient resources
	"55P03", // lock not available
	"57P",   // operator intervention
}

// IsRetryableError reports whether err is worth another attempt.
// Context cancellation never is since the caller has given up.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		for _, class := range retryableClasses {
			if strings.HasPrefix(code, class) {
				return true
			}
		}
		return false
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Operation runs fn, retrying transient failures.
func Operation[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var lastErr error

	result, err := utils.WithRetry(ctx, func() (T, error) {
		result, err := fn(ctx)
		lastErr = err
		if err != nil && !IsRetryableError(err) {
			return result, utils.Permanent(err)
		}
		return result, err
	}, Options)

	switch {
	case err == nil:
		return result, nil
	case lastErr != nil && !errors.Is(err, lastErr):
		// Ran out of time while waiting; report the database error, not the context's
		return result, fmt.Errorf("database operation gave up: %w", lastErr)
	default:
		return result, err
	}
}

// NoResult is Operation for work without a result.
func NoResult(ctx context.Context, fn func(context.Context) error) error {
	_, err := Operation(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Transaction runs fn in a transaction, replaying the whole transaction
// on a transient failure.
func Transaction(ctx context.Context, db *bun.DB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, fn)
	})
}
