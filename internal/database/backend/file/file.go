// Package file stores guild records as CSV files, one file per guild per kind.
package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// dirNames maps each kind to its directory under the data root.
var dirNames = map[enum.Kind]string{
	enum.KindBan:      "banList",
	enum.KindAppeal:   "appeals",
	enum.KindSettings: "banSettings",
	enum.KindChannels: "channels",
}

// Backend implements backend.Backend over a directory tree of CSV files.
type Backend struct {
	root   string
	closed atomic.Bool
}

// New creates the data directories under root and returns a file backend.
func New(root string) (*Backend, error) {
	for _, dir := range dirNames {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	return &Backend{root: root}, nil
}

// Path returns the file backing a container.
func (b *Backend) Path(kind enum.Kind, guildID uint64) string {
	return filepath.Join(b.root, dirNames[kind], strconv.FormatUint(guildID, 10)+".csv")
}

// Load implements backend.Backend.
func (b *Backend) Load(ctx context.Context, kind enum.Kind, guildID uint64) ([][]string, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(b.Path(kind, guildID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", kind, err)
	}
	defer f.Close()

	return readRows(f)
}

// Append implements backend.Backend.
func (b *Backend) Append(ctx context.Context, kind enum.Kind, guildID uint64, row []string) error {
	if err := b.check(ctx); err != nil {
		return err
	}

	f, err := os.OpenFile(b.Path(kind, guildID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", kind, err)
	}

	if err := writeRows(f, [][]string{row}); err != nil {
		f.Close()
		return fmt.Errorf("failed to append %s row: %w", kind, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s store: %w", kind, err)
	}
	return nil
}

// Replace implements backend.Backend. The new contents are written to a
// temporary file in the same directory and renamed over the old file.
func (b *Backend) Replace(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) error {
	if err := b.check(ctx); err != nil {
		return err
	}

	path := b.Path(kind, guildID)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary %s store: %w", kind, err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRows(tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s rows: %w", kind, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s store: %w", kind, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary %s store: %w", kind, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s store: %w", kind, err)
	}
	return nil
}

// Ensure implements backend.Backend.
func (b *Backend) Ensure(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) (bool, error) {
	if err := b.check(ctx); err != nil {
		return false, err
	}

	f, err := os.OpenFile(b.Path(kind, guildID), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create %s store: %w", kind, err)
	}

	if err := writeRows(f, rows); err != nil {
		f.Close()
		return true, fmt.Errorf("failed to write %s defaults: %w", kind, err)
	}

	if err := f.Close(); err != nil {
		return true, fmt.Errorf("failed to close %s store: %w", kind, err)
	}
	return true, nil
}

// Guilds implements backend.Backend. Files whose name is not a guild ID are ignored.
func (b *Backend) Guilds(ctx context.Context, kind enum.Kind) ([]uint64, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(b.root, dirNames[kind]))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s stores: %w", kind, err)
	}

	guilds := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}

		guildID, err := strconv.ParseUint(strings.TrimSuffix(name, ".csv"), 10, 64)
		if err != nil {
			continue
		}
		guilds = append(guilds, guildID)
	}

	slices.Sort(guilds)
	return guilds, nil
}

// Close implements backend.Backend.
func (b *Backend) Close() error {
	b.closed.Store(true)
	return nil
}

func (b *Backend) check(ctx context.Context) error {
	if b.closed.Load() {
		return backend.ErrClosed
	}
	return ctx.Err()
}

// readRows parses every non-blank line of a store file. Field counts are not
// enforced so that rows of older layouts can still be read.
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rows = append(rows, record)
	}
}

func writeRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
