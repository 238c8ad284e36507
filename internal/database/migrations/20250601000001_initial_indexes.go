package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_guild_containers_kind
			ON guild_containers (kind, guild_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create container index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP INDEX IF EXISTS idx_guild_containers_kind;`)
		if err != nil {
			return fmt.Errorf("failed to drop container index: %w", err)
		}

		return nil
	})
}
