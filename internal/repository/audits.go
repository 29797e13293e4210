package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/presence-audit/internal/entity"
)

// ErrAuditNotFound is returned when no stored audit matches the id.
var ErrAuditNotFound = errors.New("audit not found")

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// AuditsRepository stores finished audit results.
type AuditsRepository interface {
	Save(ctx context.Context, caller string, result *entity.AnalysisResult) error
	Get(ctx context.Context, caller string, id uuid.UUID) (*entity.AnalysisResult, error)
	ListByCaller(ctx context.Context, caller string, limit int) ([]entity.AuditSummary, error)
}

// PGXAuditsRepository implements AuditsRepository with pgx.
type PGXAuditsRepository struct {
	pool pgxPool
}

// NewPGXAuditsRepository instantiates an audits repository.
func NewPGXAuditsRepository(pool *pgxpool.Pool) *PGXAuditsRepository {
	return &PGXAuditsRepository{pool: pool}
}

// Save inserts the result as JSON alongside its headline columns.
func (r *PGXAuditsRepository) Save(ctx context.Context, caller string, result *entity.AnalysisResult) error {
	if result == nil {
		return errors.New("audit result is required")
	}
	id, err := uuid.Parse(result.ID)
	if err != nil {
		return fmt.Errorf("audit id %q: %w", result.ID, err)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode audit: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO audits (id, caller, tier, business_name, overall_score, grade, result, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, id, caller, string(result.Tier), result.BusinessName, result.OverallScore, result.Grade, payload, result.GeneratedAt)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// Get loads a result stored for caller. Another caller's audit is reported as
// ErrAuditNotFound.
func (r *PGXAuditsRepository) Get(ctx context.Context, caller string, id uuid.UUID) (*entity.AnalysisResult, error) {
	row := r.pool.QueryRow(ctx, `SELECT result FROM audits WHERE id = $1 AND caller = $2`, id, caller)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuditNotFound
		}
		return nil, fmt.Errorf("query audit: %w", err)
	}

	var result entity.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode audit: %w", err)
	}
	return &result, nil
}

// ListByCaller returns the caller's most recent audits, newest first.
func (r *PGXAuditsRepository) ListByCaller(ctx context.Context, caller string, limit int) ([]entity.AuditSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, tier, business_name, overall_score, grade, created_at
        FROM audits
        WHERE caller = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, caller, limit)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var summaries []entity.AuditSummary
	for rows.Next() {
		var (
			id        uuid.UUID
			tier      string
			summary   entity.AuditSummary
			createdAt time.Time
		)
		if err := rows.Scan(&id, &tier, &summary.BusinessName, &summary.OverallScore, &summary.Grade, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		summary.ID = id.String()
		summary.Tier = entity.Tier(tier)
		summary.CreatedAt = createdAt
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audits: %w", err)
	}
	return summaries, nil
}
