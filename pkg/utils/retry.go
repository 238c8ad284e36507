package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOptions configures WithRetry. OnRetry, when set, is called before
// each wait with the failed attempt's error.
type RetryOptions struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
	OnRetry         func(err error, wait time.Duration)
}

// GetDiscordRetryOptions returns retry options for Discord REST calls.
// Rate limits are already handled by the REST client so only a few
// attempts are made for transient failures.
func GetDiscordRetryOptions() RetryOptions {
	return RetryOptions{
		MaxElapsedTime:  30 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxRetries:      3,
	}
}

// Permanent marks an error as not worth retrying. WithRetry returns the
// wrapped error unchanged.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// WithRetry runs operation until it succeeds, returns a permanent error,
// runs out of attempts or ctx is done.
func WithRetry[T any](ctx context.Context, operation func() (T, error), opts RetryOptions) (T, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
	), opts.MaxRetries), ctx)

	var notify backoff.Notify
	if opts.OnRetry != nil {
		notify = backoff.Notify(opts.OnRetry)
	}

	return backoff.RetryNotifyWithData(operation, policy, notify)
}

// Retry is WithRetry for operations without a result.
func Retry(ctx context.Context, operation func() error, opts RetryOptions) error {
	_, err := WithRetry(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, opts)
	return err
}
