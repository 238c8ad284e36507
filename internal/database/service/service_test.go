package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T) (database.Client, *file.Backend) {
	t.Helper()

	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	client := database.NewClient(b, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })

	return client, b
}

func TestSettingGetDefaultsToDisabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, b := newClient(t)
	settings := client.Service().Setting()

	assert.Equal(t, types.SettingDisabled, settings.Get(ctx, 1, enum.SettingFieldAppealDelay))

	require.NoError(t, os.WriteFile(b.Path(enum.KindSettings, 2), []byte("abc,1,1\n"), 0o600))
	assert.Equal(t, types.SettingDisabled, settings.Get(ctx, 2, enum.SettingFieldAppealDelay))

	require.NoError(t, os.WriteFile(b.Path(enum.KindSettings, 3), []byte("3600,1,0\n"), 0o600))
	assert.Equal(t, int64(3600), settings.Get(ctx, 3, enum.SettingFieldAppealDelay))
	assert.Equal(t, int64(1), settings.Get(ctx, 3, enum.SettingFieldAnnounceInMain))
	assert.Equal(t, int64(0), settings.Get(ctx, 3, enum.SettingFieldNotifyByDM))
	assert.Equal(t, types.SettingDisabled, settings.Get(ctx, 3, enum.SettingField(42)))
}

func TestSettingSetAppealDelayClamps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient(t)
	settings := client.Service().Setting()

	tests := []struct {
		name  string
		input time.Duration
		want  time.Duration
	}{
		{name: "negative", input: -time.Hour, want: 0},
		{name: "in range", input: 48 * time.Hour, want: 48 * time.Hour},
		{name: "too long", input: 400 * 24 * time.Hour, want: types.MaxAppealDelay},
	}

	for _, tt := range tests {
		got, err := settings.SetAppealDelay(ctx, 1, tt.input)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)

		stored, err := settings.Settings(ctx, 1)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, stored.AppealDelay, tt.name)
	}

	require.NoError(t, settings.SetBanMessages(ctx, 1, true, true))
	stored, err := settings.Settings(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.AnnounceInMain)
	assert.True(t, stored.NotifyByDM)
	assert.Equal(t, types.MaxAppealDelay, stored.AppealDelay)
}

func TestGuildInitializeNeverOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, b := newClient(t)

	require.NoError(t, client.Service().Guild().Initialize(ctx, 5))

	for _, kind := range enum.KindValues() {
		assert.FileExists(t, b.Path(kind, 5))
	}

	settings, err := client.Service().Setting().Settings(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, settings.AppealDelay)

	_, err = client.Service().Setting().SetAppealDelay(ctx, 5, time.Hour)
	require.NoError(t, err)
	require.NoError(t, client.Service().Channel().SetChannel(ctx, 5, enum.ChannelRoleStaff, 77))

	require.NoError(t, client.Service().Guild().Initialize(ctx, 5))

	assert.Equal(t, int64(3600), client.Service().Setting().Get(ctx, 5, enum.SettingFieldAppealDelay))
	staff, ok := client.Service().Channel().ResolveChannel(ctx, 5, enum.ChannelRoleStaff)
	assert.True(t, ok)
	assert.Equal(t, uint64(77), staff)

	_, ok = client.Service().Channel().ResolveChannel(ctx, 5, enum.ChannelRoleMain)
	assert.False(t, ok)
}

func TestBanClearRemovesAppeal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient(t)

	require.NoError(t, client.Service().Ban().RecordBan(ctx, 1, 9, "spam", time.Unix(0, 0)))
	require.NoError(t, client.Model().Appeal().Create(ctx, &types.GuildAppeal{
		GuildID: 1, UserID: 9, PollMessageID: 3, ExpiresAt: time.Unix(100, 0),
	}))

	recorded, err := client.Service().Ban().IsRecorded(ctx, 1, 9)
	require.NoError(t, err)
	assert.True(t, recorded)

	removed, err := client.Service().Ban().ClearBan(ctx, 1, 9)
	require.NoError(t, err)
	assert.True(t, removed)

	appeals, err := client.Model().Appeal().List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, appeals)
}
