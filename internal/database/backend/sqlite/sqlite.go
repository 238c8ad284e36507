// Package sqlite stores guild records in an embedded SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bytedance/sonic"
	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS guild_containers (
	kind     TEXT    NOT NULL,
	guild_id INTEGER NOT NULL,
	PRIMARY KEY (kind, guild_id)
);

CREATE TABLE IF NOT EXISTS guild_records (
	kind     TEXT    NOT NULL,
	guild_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	data     TEXT    NOT NULL,
	PRIMARY KEY (kind, guild_id, position)
);
`

// Backend implements backend.Backend over a SQLite connection pool.
type Backend struct {
	pool   *sqlitex.Pool
	logger *zap.Logger
	closed atomic.Bool
}

// New opens the database at path and creates the schema if needed.
func New(ctx context.Context, path string, poolSize int, logger *zap.Logger) (*Backend, error) {
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{PoolSize: poolSize})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	b := &Backend{
		pool:   pool,
		logger: logger.Named("sqlite_backend"),
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to take connection: %w", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	b.logger.Info("SQLite backend ready", zap.String("path", path))
	return b, nil
}

// Load implements backend.Backend.
func (b *Backend) Load(ctx context.Context, kind enum.Kind, guildID uint64) ([][]string, error) {
	var rows [][]string
	err := b.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT data FROM guild_records WHERE kind = ? AND guild_id = ? ORDER BY position",
			&sqlitex.ExecOptions{
				Args: []any{kind.String(), int64(guildID)}, //nolint:gosec // snowflakes fit in int64
				ResultFunc: func(stmt *sqlite.Stmt) error {
					var row []string
					if err := sonic.UnmarshalString(stmt.ColumnText(0), &row); err != nil {
						return fmt.Errorf("failed to decode row: %w", err)
					}
					rows = append(rows, row)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s rows: %w", kind, err)
	}
	return rows, nil
}

// Append implements backend.Backend.
func (b *Backend) Append(ctx context.Context, kind enum.Kind, guildID uint64, row []string) error {
	err := b.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endFn, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endFn(&err)

		if err := touch(conn, kind, guildID); err != nil {
			return err
		}

		var next int64
		err = sqlitex.Execute(conn,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM guild_records WHERE kind = ? AND guild_id = ?",
			&sqlitex.ExecOptions{
				Args: []any{kind.String(), int64(guildID)}, //nolint:gosec // snowflakes fit in int64
				ResultFunc: func(stmt *sqlite.Stmt) error {
					next = stmt.ColumnInt64(0)
					return nil
				},
			})
		if err != nil {
			return err
		}

		return insert(conn, kind, guildID, next, row)
	})
	if err != nil {
		return fmt.Errorf("failed to append %s row: %w", kind, err)
	}
	return nil
}

// Replace implements backend.Backend.
func (b *Backend) Replace(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) error {
	err := b.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endFn, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endFn(&err)

		if err := touch(conn, kind, guildID); err != nil {
			return err
		}

		err = sqlitex.Execute(conn, "DELETE FROM guild_records WHERE kind = ? AND guild_id = ?",
			&sqlitex.ExecOptions{Args: []any{kind.String(), int64(guildID)}}) //nolint:gosec // snowflakes fit in int64
		if err != nil {
			return err
		}

		for i, row := range rows {
			if err := insert(conn, kind, guildID, int64(i), row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s rows: %w", kind, err)
	}
	return nil
}

// Ensure implements backend.Backend.
func (b *Backend) Ensure(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) (bool, error) {
	var created bool
	err := b.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		endFn, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer endFn(&err)

		if err := touch(conn, kind, guildID); err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return nil
		}

		created = true
		for i, row := range rows {
			if err := insert(conn, kind, guildID, int64(i), row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to ensure %s container: %w", kind, err)
	}
	return created, nil
}

// Guilds implements backend.Backend.
func (b *Backend) Guilds(ctx context.Context, kind enum.Kind) ([]uint64, error) {
	var guilds []uint64
	err := b.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT guild_id FROM guild_containers WHERE kind = ? ORDER BY guild_id",
			&sqlitex.ExecOptions{
				Args: []any{kind.String()},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					guilds = append(guilds, uint64(stmt.ColumnInt64(0))) //nolint:gosec // stored from uint64
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s guilds: %w", kind, err)
	}
	return guilds, nil
}

// Close implements backend.Backend.
func (b *Backend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}

	if err := b.pool.Close(); err != nil {
		b.logger.Error("Failed to close SQLite pool", zap.Error(err))
		return err
	}

	b.logger.Info("SQLite backend closed")
	return nil
}

// withConn runs fn on a pooled connection.
func (b *Backend) withConn(ctx context.Context, fn func(*sqlite.Conn) error) error {
	if b.closed.Load() {
		return backend.ErrClosed
	}

	conn, err := b.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("failed to take connection: %w", err)
	}
	defer b.pool.Put(conn)

	return fn(conn)
}

// touch registers the container so it shows up in Guilds even when empty.
func touch(conn *sqlite.Conn, kind enum.Kind, guildID uint64) error {
	return sqlitex.Execute(conn,
		"INSERT OR IGNORE INTO guild_containers (kind, guild_id) VALUES (?, ?)",
		&sqlitex.ExecOptions{Args: []any{kind.String(), int64(guildID)}}) //nolint:gosec // snowflakes fit in int64
}

func insert(conn *sqlite.Conn, kind enum.Kind, guildID uint64, position int64, row []string) error {
	data, err := sonic.MarshalString(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	return sqlitex.Execute(conn,
		"INSERT INTO guild_records (kind, guild_id, position, data) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{Args: []any{kind.String(), int64(guildID), position, data}}) //nolint:gosec // snowflakes fit in int64
}
