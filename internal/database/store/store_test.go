package store_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/robalyx/tribunal/internal/database/store"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBanStore(t *testing.T) (*store.Store[types.GuildBan, *types.GuildBan], *file.Backend) {
	t.Helper()

	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	return store.New[types.GuildBan](enum.KindBan, b, lock.NewKeyedMutex(), zap.NewNop()), b
}

func TestStoreMissingContainerReadsEmpty(t *testing.T) {
	t.Parallel()

	s, _ := newBanStore(t)

	bans, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, bans)
}

func TestStoreConcurrentAppends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newBanStore(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ban := &types.GuildBan{UserID: uint64(i + 1), BannedAt: time.Unix(int64(i), 0)}
			assert.NoError(t, s.Append(ctx, 1, ban))
		}()
	}
	wg.Wait()

	bans, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, bans, 50)

	seen := make(map[uint64]bool)
	for _, ban := range bans {
		seen[ban.UserID] = true
	}
	assert.Len(t, seen, 50)
}

func TestStoreRemoveWhere(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newBanStore(t)

	for _, id := range []uint64{1, 2, 3} {
		require.NoError(t, s.Append(ctx, 9, &types.GuildBan{UserID: id, BannedAt: time.Unix(0, 0)}))
	}

	removed, err := s.RemoveWhere(ctx, 9, func(b *types.GuildBan) bool { return b.UserID == 2 })
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, uint64(2), removed[0].UserID)

	removed, err = s.RemoveWhere(ctx, 9, func(b *types.GuildBan) bool { return b.UserID == 2 })
	require.NoError(t, err)
	assert.Empty(t, removed)

	bans, err := s.List(ctx, 9)
	require.NoError(t, err)
	require.Len(t, bans, 2)
	assert.Equal(t, uint64(1), bans[0].UserID)
	assert.Equal(t, uint64(3), bans[1].UserID)
}

func TestStorePreservesMalformedRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, b := newBanStore(t)

	content := "10,spam,100\nnot-a-user,,oops\n11,,200\n"
	require.NoError(t, os.WriteFile(b.Path(enum.KindBan, 4), []byte(content), 0o600))

	bans, err := s.List(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, bans, 2)

	_, err = s.RemoveWhere(ctx, 4, func(b *types.GuildBan) bool { return b.UserID == 10 })
	require.NoError(t, err)

	data, err := os.ReadFile(b.Path(enum.KindBan, 4))
	require.NoError(t, err)
	assert.Equal(t, "11,,200\nnot-a-user,,oops\n", string(data))
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newBanStore(t)
	require.NoError(t, s.Append(ctx, 2, &types.GuildBan{UserID: 5, BannedAt: time.Unix(0, 0)}))

	err := s.Update(ctx, 2, func(bans []*types.GuildBan) ([]*types.GuildBan, error) {
		for _, ban := range bans {
			ban.Status = enum.BanStatusManualUnban
		}
		return bans, nil
	})
	require.NoError(t, err)

	bans, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, enum.BanStatusManualUnban, bans[0].Status)

	err = s.Update(ctx, 2, func([]*types.GuildBan) ([]*types.GuildBan, error) {
		return nil, store.ErrNoChange
	})
	require.NoError(t, err)

	bans, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, bans, 1)
}

func TestStoreEnsureAndGuilds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	s := store.New[types.GuildSettings](enum.KindSettings, b, lock.NewKeyedMutex(), zap.NewNop())

	created, err := s.Ensure(ctx, 8, []*types.GuildSettings{{}})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, s.ReplaceAll(ctx, 8, []*types.GuildSettings{{AppealDelay: time.Hour}}))

	created, err = s.Ensure(ctx, 8, []*types.GuildSettings{{}})
	require.NoError(t, err)
	assert.False(t, created)

	settings, err := s.List(ctx, 8)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, time.Hour, settings[0].AppealDelay)

	guilds, err := s.Guilds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{8}, guilds)
}

func TestStoreLockHonorsContext(t *testing.T) {
	t.Parallel()

	s, _ := newBanStore(t)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Update(context.Background(), 1, func(bans []*types.GuildBan) ([]*types.GuildBan, error) {
			close(started)
			<-release
			return nil, store.ErrNoChange
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.List(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}
