package models_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/robalyx/tribunal/internal/database/models"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFileBackend(t *testing.T) *file.Backend {
	t.Helper()

	b, err := file.New(t.TempDir())
	require.NoError(t, err)
	return b
}

func TestAppealCreateIsExclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := models.NewAppeal(newFileBackend(t), lock.NewKeyedMutex(), zap.NewNop())

	var (
		created atomic.Int32
		exists  atomic.Int32
		wg      sync.WaitGroup
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := m.Create(ctx, &types.GuildAppeal{GuildID: 1, UserID: 42, ExpiresAt: time.Unix(100, 0)})
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, types.ErrAppealExists):
				exists.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(9), exists.Load())

	appeals, err := m.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, appeals, 1)
}

func TestAppealAttachAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := models.NewAppeal(newFileBackend(t), lock.NewKeyedMutex(), zap.NewNop())

	tentative := &types.GuildAppeal{GuildID: 1, UserID: 42, ExpiresAt: time.Unix(100, 0)}
	require.NoError(t, m.Create(ctx, tentative))

	attached, err := m.AttachPoll(ctx, 1, 42, 555)
	require.NoError(t, err)
	assert.True(t, attached)

	attached, err = m.AttachPoll(ctx, 1, 42, 556)
	require.NoError(t, err)
	assert.False(t, attached)

	appeals, err := m.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, appeals, 1)
	assert.Equal(t, uint64(555), appeals[0].PollMessageID)

	removed, err := m.Remove(ctx, appeals[0])
	require.NoError(t, err)
	require.NotNil(t, removed)

	removed, err = m.Remove(ctx, appeals[0])
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestBanRecordReplacesExisting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := models.NewBan(newFileBackend(t), lock.NewKeyedMutex(), zap.NewNop())

	require.NoError(t, m.Record(ctx, &types.GuildBan{GuildID: 1, UserID: 7, Reason: "first", BannedAt: time.Unix(1, 0)}))
	require.NoError(t, m.Record(ctx, &types.GuildBan{GuildID: 1, UserID: 8, BannedAt: time.Unix(2, 0)}))
	require.NoError(t, m.Record(ctx, &types.GuildBan{GuildID: 1, UserID: 7, Reason: "second", BannedAt: time.Unix(3, 0)}))

	bans, err := m.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bans, 2)

	ban, err := m.Get(ctx, 1, 7)
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.Equal(t, "second", ban.Reason)

	found, err := m.SetStatus(ctx, 1, 7, enum.BanStatusUnbanFailed)
	require.NoError(t, err)
	assert.True(t, found)

	ban, err = m.Get(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, enum.BanStatusUnbanFailed, ban.Status)

	removed, err := m.Remove(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, removed)

	ban, err = m.Get(ctx, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, ban)
}

func TestSettingAndChannelDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newFileBackend(t)
	locks := lock.NewKeyedMutex()

	settings := models.NewSetting(b, locks, zap.NewNop())
	s, found, err := settings.Get(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, s.AppealDelay)

	require.NoError(t, settings.Update(ctx, 3, func(s *types.GuildSettings) { s.NotifyByDM = true }))
	s, found, err = settings.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, s.NotifyByDM)

	channels := models.NewChannel(b, locks, zap.NewNop())
	require.NoError(t, channels.Set(ctx, 3, enum.ChannelRoleStaff, 99))
	c, found, err := channels.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(99), c.Staff)
	assert.Zero(t, c.Main)
}
