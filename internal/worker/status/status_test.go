package status_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/robalyx/tribunal/internal/worker/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePresence struct {
	mu    sync.Mutex
	calls []status.Activity
	err   error
}

func (p *fakePresence) SetActivity(_ context.Context, kind status.ActivityKind, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, status.Activity{Kind: kind, Name: name})
	return nil
}

func TestParseActivities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []status.Activity
		wantErr error
	}{
		{
			name:  "playing and watching",
			input: "the appeal polls\nwith the ban hammer\nWATCHING\nthe staff channel\n",
			want: []status.Activity{
				{Kind: status.ActivityPlaying, Name: "the appeal polls"},
				{Kind: status.ActivityPlaying, Name: "with the ban hammer"},
				{Kind: status.ActivityWatching, Name: "the staff channel"},
			},
		},
		{
			name:  "blank lines skipped",
			input: "\n  \nchess\r\n\nWATCHING\r\n\n  the clock  \n",
			want: []status.Activity{
				{Kind: status.ActivityPlaying, Name: "chess"},
				{Kind: status.ActivityWatching, Name: "the clock"},
			},
		},
		{
			name:  "watching only",
			input: "WATCHING\nover the server",
			want: []status.Activity{
				{Kind: status.ActivityWatching, Name: "over the server"},
			},
		},
		{
			name:    "empty",
			input:   "\n\nWATCHING\n",
			wantErr: status.ErrNoActivities,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := status.ParseActivities([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadActivities(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "activities.txt")
	require.NoError(t, os.WriteFile(path, []byte("chess\nWATCHING\nthe clock\n"), 0o600))

	activities, err := status.LoadActivities(path)
	require.NoError(t, err)
	assert.Len(t, activities, 2)

	_, err = status.LoadActivities(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestRotatorRotate(t *testing.T) {
	t.Parallel()

	activities := []status.Activity{
		{Kind: status.ActivityPlaying, Name: "chess"},
		{Kind: status.ActivityWatching, Name: "the clock"},
	}

	next := 0
	picker := func(n int) int {
		i := next % n
		next++
		return i
	}

	presence := &fakePresence{}
	rotator, err := status.NewRotator(presence, activities, zap.NewNop(), status.WithPicker(picker))
	require.NoError(t, err)

	rotator.Rotate(t.Context())
	rotator.Rotate(t.Context())
	rotator.Rotate(t.Context())

	assert.Equal(t, []status.Activity{activities[0], activities[1], activities[0]}, presence.calls)
}

func TestRotatorLogsFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	presence := &fakePresence{err: errors.New("gateway closed")}

	rotator, err := status.NewRotator(presence, []status.Activity{{Name: "chess"}}, zap.New(core))
	require.NoError(t, err)

	rotator.Rotate(t.Context())
	assert.Equal(t, 1, logs.FilterMessage("Failed to change status").Len())
}

func TestRotatorReload(t *testing.T) {
	t.Parallel()

	presence := &fakePresence{}
	rotator, err := status.NewRotator(presence, []status.Activity{{Name: "chess"}}, zap.NewNop())
	require.NoError(t, err)

	require.ErrorIs(t, rotator.Reload(nil), status.ErrNoActivities)

	require.NoError(t, rotator.Reload([]status.Activity{{Kind: status.ActivityWatching, Name: "the clock"}}))
	rotator.Rotate(t.Context())
	assert.Equal(t, []status.Activity{{Kind: status.ActivityWatching, Name: "the clock"}}, presence.calls)

	_, err = status.NewRotator(presence, nil, zap.NewNop())
	require.ErrorIs(t, err, status.ErrNoActivities)
}
