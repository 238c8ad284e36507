// Package postgres stores guild records in PostgreSQL through bun.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/dbretry"
	"github.com/robalyx/tribunal/internal/database/migrations"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunjson"
	"github.com/uptrace/bun/extra/bunotel"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// sonicProvider is a JSON provider that uses Sonic for encoding and decoding.
type sonicProvider struct{}

func (sonicProvider) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (sonicProvider) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func (sonicProvider) NewEncoder(w io.Writer) bunjson.Encoder {
	return sonic.ConfigDefault.NewEncoder(w)
}

func (sonicProvider) NewDecoder(r io.Reader) bunjson.Decoder {
	return sonic.ConfigDefault.NewDecoder(r)
}

// Open creates a bun database handle for the given configuration.
func Open(cfg *config.PostgreSQL, logger *zap.Logger) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.DBName),
		pgdriver.WithInsecure(true),
		pgdriver.WithApplicationName("tribunal"),
	))

	// Set connection pool settings
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)
	sqldb.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Minute)

	bunjson.SetProvider(sonicProvider{})

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(NewQueryLogger(logger, SlowQueryThreshold))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.DBName)))

	return db
}

// Backend implements backend.Backend over PostgreSQL.
type Backend struct {
	db     *bun.DB
	logger *zap.Logger
	closed atomic.Bool
}

// New wraps an open database, optionally running pending migrations first.
func New(ctx context.Context, db *bun.DB, logger *zap.Logger, autoMigrate bool) (*Backend, error) {
	logger = logger.Named("postgres_backend")

	if autoMigrate {
		migrator := migrate.NewMigrator(db, migrations.Migrations)
		if err := migrator.Init(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize migrations: %w", err)
		}

		group, err := migrator.Migrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		if !group.IsZero() {
			logger.Info("Automatically ran migrations", zap.String("group", group.String()))
		}
	}

	logger.Info("Database connection established")

	return &Backend{db: db, logger: logger}, nil
}

// DB returns the underlying bun.DB instance.
func (b *Backend) DB() *bun.DB {
	return b.db
}

// Load implements backend.Backend.
func (b *Backend) Load(ctx context.Context, kind enum.Kind, guildID uint64) ([][]string, error) {
	if b.closed.Load() {
		return nil, backend.ErrClosed
	}

	records, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GuildRecord, error) {
		var records []*types.GuildRecord
		err := b.db.NewSelect().
			Model(&records).
			Where("kind = ?", kind.String()).
			Where("guild_id = ?", guildID).
			Order("position ASC").
			Scan(ctx)
		return records, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s rows: %w", kind, err)
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Fields)
	}
	return rows, nil
}

// Append implements backend.Backend.
func (b *Backend) Append(ctx context.Context, kind enum.Kind, guildID uint64, row []string) error {
	if b.closed.Load() {
		return backend.ErrClosed
	}

	err := dbretry.Transaction(ctx, b.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := touch(ctx, tx, kind, guildID); err != nil {
			return err
		}

		var next int
		err := tx.NewSelect().
			Model((*types.GuildRecord)(nil)).
			ColumnExpr("COALESCE(MAX(position) + 1, 0)").
			Where("kind = ?", kind.String()).
			Where("guild_id = ?", guildID).
			Scan(ctx, &next)
		if err != nil {
			return err
		}

		_, err = tx.NewInsert().
			Model(&types.GuildRecord{Kind: kind.String(), GuildID: guildID, Position: next, Fields: row}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to append %s row: %w", kind, err)
	}
	return nil
}

// Replace implements backend.Backend.
func (b *Backend) Replace(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) error {
	if b.closed.Load() {
		return backend.ErrClosed
	}

	err := dbretry.Transaction(ctx, b.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := touch(ctx, tx, kind, guildID); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*types.GuildRecord)(nil)).
			Where("kind = ?", kind.String()).
			Where("guild_id = ?", guildID).
			Exec(ctx)
		if err != nil {
			return err
		}

		return insertRows(ctx, tx, kind, guildID, rows)
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s rows: %w", kind, err)
	}
	return nil
}

// Ensure implements backend.Backend.
func (b *Backend) Ensure(ctx context.Context, kind enum.Kind, guildID uint64, rows [][]string) (bool, error) {
	if b.closed.Load() {
		return false, backend.ErrClosed
	}

	var created bool
	err := dbretry.Transaction(ctx, b.db, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := touch(ctx, tx, kind, guildID)
		if err != nil {
			return err
		}

		created = inserted
		if !inserted {
			return nil
		}
		return insertRows(ctx, tx, kind, guildID, rows)
	})
	if err != nil {
		return false, fmt.Errorf("failed to ensure %s container: %w", kind, err)
	}
	return created, nil
}

// Guilds implements backend.Backend.
func (b *Backend) Guilds(ctx context.Context, kind enum.Kind) ([]uint64, error) {
	if b.closed.Load() {
		return nil, backend.ErrClosed
	}

	guilds, err := dbretry.Operation(ctx, func(ctx context.Context) ([]uint64, error) {
		var guilds []uint64
		err := b.db.NewSelect().
			Model((*types.GuildContainer)(nil)).
			Column("guild_id").
			Where("kind = ?", kind.String()).
			Order("guild_id ASC").
			Scan(ctx, &guilds)
		return guilds, err
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

	if err := b.db.Close(); err != nil {
		b.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	b.logger.Info("Database connection closed")
	return nil
}

// touch registers the container and reports whether it was new.
func touch(ctx context.Context, tx bun.Tx, kind enum.Kind, guildID uint64) (bool, error) {
	res, err := tx.NewInsert().
		Model(&types.GuildContainer{Kind: kind.String(), GuildID: guildID}).
		On("CONFLICT (kind, guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func insertRows(ctx context.Context, tx bun.Tx, kind enum.Kind, guildID uint64, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]*types.GuildRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, &types.GuildRecord{
			Kind:     kind.String(),
			GuildID:  guildID,
			Position: i,
			Fields:   row,
		})
	}

	_, err := tx.NewInsert().Model(&records).Exec(ctx)
	return err
}
