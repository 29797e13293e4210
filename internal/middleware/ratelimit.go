package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/presence-audit/internal/config"
)

// AuditRateLimiter applies a token bucket per caller to the routes it wraps.
// It runs after Caller so anonymous and authenticated callers get separate
// buckets.
func AuditRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiters := newCallerLimiters(perRequest, cfg.Requests, cfg.Interval, time.Now)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := CallerFromContext(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			if !limiters.allow(key) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "audit rate limit exceeded"})
			}

			return next(c)
		}
	}
}

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// callerLimiters holds one bucket per caller. A bucket left alone for idle has
// refilled completely, so it is dropped on the next sweep.
type callerLimiters struct {
	mu        sync.Mutex
	every     time.Duration
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*callerLimiter
}

func newCallerLimiters(every time.Duration, burst int, idle time.Duration, now func() time.Time) *callerLimiters {
	return &callerLimiters{
		every:     every,
		burst:     burst,
		idle:      idle,
		now:       now,
		lastSweep: now(),
		entries:   map[string]*callerLimiter{},
	}
}

func (l *callerLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) >= l.idle {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &callerLimiter{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *callerLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
