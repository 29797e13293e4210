package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/presence-audit/internal/entity"
)

func TestPGXQuotaStore_GetMissing(t *testing.T) {
	store := &PGXQuotaStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}}

	_, ok, err := store.Get(context.Background(), "caller")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no stored state")
	}
}

func TestPGXQuotaStore_GetExisting(t *testing.T) {
	store := &PGXQuotaStore{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if args[0] != "caller" {
				t.Fatalf("unexpected caller arg %v", args[0])
			}
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*string) = "2025-03-15"
				*dest[1].(*int) = 7
				return nil
			}}
		},
	}}

	state, ok, err := store.Get(context.Background(), "caller")
	if err != nil || !ok {
		t.Fatalf("expected state, got ok=%v err=%v", ok, err)
	}
	if state != (entity.QuotaState{Day: "2025-03-15", Count: 7}) {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPGXQuotaStore_SetUpserts(t *testing.T) {
	var captured []any
	store := &PGXQuotaStore{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			captured = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	if err := store.Set(context.Background(), "caller", entity.QuotaState{Day: "2025-03-15", Count: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured) != 3 || captured[0] != "caller" || captured[1] != "2025-03-15" || captured[2] != 3 {
		t.Fatalf("unexpected args %v", captured)
	}
}

func TestPGXQuotaStore_SetError(t *testing.T) {
	store := &PGXQuotaStore{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("db down")
		},
	}}

	if err := store.Set(context.Background(), "caller", entity.QuotaState{}); err == nil {
		t.Fatal("expected error")
	}
}
