package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a statement; *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS quota_usage (
        caller     TEXT PRIMARY KEY,
        day        TEXT NOT NULL,
        count      INTEGER NOT NULL DEFAULT 0,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS audits (
        id            UUID PRIMARY KEY,
        caller        TEXT NOT NULL,
        tier          TEXT NOT NULL,
        business_name TEXT NOT NULL DEFAULT '',
        overall_score INTEGER NOT NULL,
        grade         TEXT NOT NULL,
        result        JSONB NOT NULL,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS audits_caller_created_idx ON audits (caller, created_at DESC)`,
}

// Migrate creates the tables the service needs. Every statement is idempotent.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
