// Package backend defines the durable storage used by the record store.
//
// A backend keeps one container of rows per (kind, guild). Rows are opaque
// slices of string fields; decoding is left to the store. Backends do not
// serialize access themselves: the store holds an exclusive section per
// (kind, guild) around every call.
package backend

import (
	"context"
	"errors"

	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// ErrClosed is returned by a backend after Close.
var ErrClosed = errors.New("backend closed")

// Backend is the storage contract shared by the file, sqlite and postgres backends.
type Backend interface {
	// Load returns every row of a container in insertion order.
	// A missing container yields no rows and no error.
	Load(ctx context.Context, kind enum.Kind, guildID uint64) ([][]string, error)
	// Append adds a row at the end of a container, creating it if absent.
	Append(ctx context.Context, kind enum.Kind, guildID uint64, row []string) error
	// Replace atomically swaps the contents of a container.
	Replace(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) error
	// Ensure creates a container holding rows iff it does not exist yet.
	// It reports whether the container was created.
	Ensure(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) (bool, error)
	// Guilds lists every guild that has a container of the given kind.
	Guilds(ctx context.Context, kind enum.Kind) ([]uint64, error)
	// Close releases the backend's resources.
	Close() error
}
