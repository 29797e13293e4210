package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/presence-audit/internal/entity"
)

// PGXQuotaStore persists daily lookup counters in PostgreSQL.
type PGXQuotaStore struct {
	pool pgxPool
}

// NewPGXQuotaStore instantiates a quota store.
func NewPGXQuotaStore(pool *pgxpool.Pool) *PGXQuotaStore {
	return &PGXQuotaStore{pool: pool}
}

// Get returns the stored counter for caller, if any.
func (s *PGXQuotaStore) Get(ctx context.Context, caller string) (entity.QuotaState, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT day, count FROM quota_usage WHERE caller = $1`, caller)

	var state entity.QuotaState
	if err := row.Scan(&state.Day, &state.Count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.QuotaState{}, false, nil
		}
		return entity.QuotaState{}, false, fmt.Errorf("query quota: %w", err)
	}
	return state, true, nil
}

// Set upserts the counter for caller.
func (s *PGXQuotaStore) Set(ctx context.Context, caller string, state entity.QuotaState) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO quota_usage (caller, day, count, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (caller) DO UPDATE
        SET day = EXCLUDED.day, count = EXCLUDED.count, updated_at = NOW()
    `, caller, state.Day, state.Count)
	if err != nil {
		return fmt.Errorf("upsert quota: %w", err)
	}
	return nil
}
