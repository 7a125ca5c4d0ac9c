package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS shift_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		department_id TEXT NOT NULL,
		clock_in TIMESTAMPTZ NOT NULL,
		clock_out TIMESTAMPTZ,
		duration_ms BIGINT,
		on_break BOOLEAN NOT NULL DEFAULT FALSE,
		break_start TIMESTAMPTZ,
		total_break_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_sessions_active
		ON shift_sessions (guild_id, user_id, department_id) WHERE clock_out IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_shift_sessions_closed
		ON shift_sessions (guild_id, clock_out) WHERE clock_out IS NOT NULL`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
