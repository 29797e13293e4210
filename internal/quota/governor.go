// Package quota enforces the per-caller daily lookup budget.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
)

const dayLayout = "2006-01-02"

// Unlimited disables the daily check. Any negative limit behaves the same;
// a limit of zero rejects every call.
const Unlimited = -1

// Store persists one {day, count} tuple per caller.
type Store interface {
	Get(ctx context.Context, caller string) (entity.QuotaState, bool, error)
	Set(ctx context.Context, caller string, state entity.QuotaState) error
}

// Governor gates billable provider calls. Read-modify-write is serialized
// within the process; callers across processes share nothing but the store.
type Governor struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
	mu     sync.Mutex
}

// Option configures a Governor.
type Option func(*Governor)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(g *Governor) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Governor) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGovernor builds a governor over the given store.
func NewGovernor(store Store, opts ...Option) *Governor {
	g := &Governor{
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DayKey is the local calendar day the counter belongs to.
func (g *Governor) DayKey() string {
	return g.now().Local().Format(dayLayout)
}

// Consume counts one billable call and fails once the day's count goes past
// dailyLimit. The increment is persisted even when the call is rejected, and
// it is never refunded. A negative dailyLimit disables the check.
func (g *Governor) Consume(ctx context.Context, caller string, dailyLimit int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, err := g.current(ctx, caller)
	if err != nil {
		return err
	}
	state.Count++

	if err := g.store.Set(ctx, caller, state); err != nil {
		g.logger.Error("Quota write failed", zap.String("caller", caller), zap.Error(err))
		return fmt.Errorf("write quota for %s: %w", caller, err)
	}

	if dailyLimit >= 0 && state.Count > dailyLimit {
		g.logger.Warn("Daily lookup limit reached",
			zap.String("caller", caller),
			zap.Int("used", state.Count),
			zap.Int("limit", dailyLimit))
		return apperror.RateLimitExceeded(state.Count, dailyLimit)
	}

	g.logger.Debug("Quota consumed",
		zap.String("caller", caller),
		zap.String("day", state.Day),
		zap.Int("used", state.Count),
		zap.Int("limit", dailyLimit))
	return nil
}

// Snapshot reports today's usage without changing it.
func (g *Governor) Snapshot(ctx context.Context, caller string, dailyLimit int) (entity.QuotaUsage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, err := g.current(ctx, caller)
	if err != nil {
		return entity.QuotaUsage{}, err
	}
	return entity.QuotaUsage{UsedToday: state.Count, DailyLimit: dailyLimit}, nil
}

// current returns today's state, resetting it when the stored day is stale.
func (g *Governor) current(ctx context.Context, caller string) (entity.QuotaState, error) {
	day := g.DayKey()
	state, ok, err := g.store.Get(ctx, caller)
	if err != nil {
		g.logger.Error("Quota read failed", zap.String("caller", caller), zap.Error(err))
		return entity.QuotaState{}, fmt.Errorf("read quota for %s: %w", caller, err)
	}
	if !ok || state.Day != day {
		return entity.QuotaState{Day: day}, nil
	}
	return state, nil
}
