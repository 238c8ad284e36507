package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	b, err := file.New(root)
	require.NoError(t, err)

	for _, dir := range []string{"banList", "appeals", "banSettings", "channels"} {
		assert.DirExists(t, filepath.Join(root, dir))
	}
	assert.Equal(t, filepath.Join(root, "appeals", "123.csv"), b.Path(enum.KindAppeal, 123))
}

func TestBackendRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	rows, err := b.Load(ctx, enum.KindBan, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, b.Append(ctx, enum.KindBan, 1, []string{"10", "spam, eggs", "100"}))
	require.NoError(t, b.Append(ctx, enum.KindBan, 1, []string{"11", "", "200"}))

	rows, err = b.Load(ctx, enum.KindBan, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"10", "spam, eggs", "100"}, {"11", "", "200"}}, rows)

	require.NoError(t, b.Replace(ctx, enum.KindBan, 1, [][]string{{"11", "", "200"}}))
	rows, err = b.Load(ctx, enum.KindBan, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"11", "", "200"}}, rows)

	guilds, err := b.Guilds(ctx, enum.KindBan)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, guilds)
}

func TestBackendReadsExistingFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	b, err := file.New(root)
	require.NoError(t, err)

	content := "86400,1,0\n"
	require.NoError(t, os.WriteFile(b.Path(enum.KindSettings, 5), []byte(content), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "banSettings", "notes.txt"), []byte("x"), 0o600))

	rows, err := b.Load(ctx, enum.KindSettings, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"86400", "1", "0"}}, rows)

	guilds, err := b.Guilds(ctx, enum.KindSettings)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5}, guilds)
}

func TestBackendEnsure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	created, err := b.Ensure(ctx, enum.KindChannels, 9, [][]string{{"0", "0", "0", "0", "0"}})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, b.Replace(ctx, enum.KindChannels, 9, [][]string{{"1", "0", "3", "0", "0"}}))

	created, err = b.Ensure(ctx, enum.KindChannels, 9, [][]string{{"0", "0", "0", "0", "0"}})
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := b.Load(ctx, enum.KindChannels, 9)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "0", "3", "0", "0"}}, rows)

	created, err = b.Ensure(ctx, enum.KindBan, 9, nil)
	require.NoError(t, err)
	assert.True(t, created)

	guilds, err := b.Guilds(ctx, enum.KindBan)
	require.NoError(t, err)
	assert.Equal(t, []uint64{9}, guilds)
}

func TestBackendClosed(t *testing.T) {
	t.Parallel()

	b, err := file.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = b.Load(context.Background(), enum.KindBan, 1)
	require.ErrorIs(t, err, backend.ErrClosed)
}
