package dbretry_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/robalyx/tribunal/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("syntax error")

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "connection reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "eof", err: io.ErrUnexpectedEOF, want: true},
		{name: "wrapped canceled", err: fmt.Errorf("query: %w", context.Canceled), want: false},
		{name: "other", err: errPermanent, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperationRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	result, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
		attempts++
		if attempts < 2 {
			return 0, syscall.ECONNREFUSED
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Equal(t, 2, attempts)
}

func TestNoResultStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := dbretry.NoResult(context.Background(), func(context.Context) error {
		attempts++
		return errPermanent
	})
	require.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}
