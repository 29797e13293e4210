// Package app assembles the audit service from configuration. The HTTP API
// and the CLI share it.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/database"
	"github.com/octobees/presence-audit/internal/places"
	"github.com/octobees/presence-audit/internal/quota"
	"github.com/octobees/presence-audit/internal/repository"
	"github.com/octobees/presence-audit/internal/service"
	"github.com/octobees/presence-audit/internal/service/locator"
	"github.com/octobees/presence-audit/internal/webtext"
)

// App owns the wired service and the connections behind it.
type App struct {
	Audits *service.AuditService

	closers []func()
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Build connects the configured backends and wires the audit service. A
// missing Places key is not fatal here: the self-audit works without it and
// live tiers fail with CONFIGURATION_ERROR.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{}

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := database.Connect(ctx, cfg.DatabaseURL, database.Options{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		pool = p
		a.closers = append(a.closers, p.Close)
	}

	store, err := a.quotaStore(ctx, cfg, pool, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	governor := quota.NewGovernor(store, quota.WithLogger(logger))

	var provider places.Provider
	normalizer := places.Normalizer{}
	google, err := places.NewGoogleProvider(ctx, cfg.PlacesAPIKey,
		places.WithLanguage(cfg.PlacesLanguage),
		places.WithTimeout(cfg.ProviderTimeout),
		places.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("Places provider unavailable; live audits disabled", zap.Error(err))
		provider = places.Unconfigured{Err: err}
	} else {
		provider = google
		normalizer.PhotoURL = google.PhotoURL
	}

	fetcher := webtext.New(fetchCandidates(cfg.FetchProxies),
		webtext.WithTimeout(cfg.FetchTimeout),
		webtext.WithLogger(logger),
	)
	loc := locator.New(provider, normalizer,
		locator.WithFetcher(fetcher),
		locator.WithPhoneRegion(cfg.PhoneRegion),
		locator.WithStandardRadius(cfg.StandardRadiusMeters),
		locator.WithLogger(logger),
	)

	opts := []service.AuditOption{service.WithLogger(logger)}
	if pool != nil {
		opts = append(opts, service.WithAuditsRepository(repository.NewPGXAuditsRepository(pool)))
	}
	a.Audits = service.NewAuditService(provider, normalizer, loc, governor, opts...)

	return a, nil
}

func (a *App) quotaStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (quota.Store, error) {
	switch cfg.QuotaBackend {
	case config.QuotaBackendRedis:
		client, err := quota.DialRedis(ctx, quota.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return quota.NewRedisStore(client, logger), nil
	case config.QuotaBackendPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres quota backend requires a database")
		}
		return repository.NewPGXQuotaStore(pool), nil
	default:
		return quota.NewMemoryStore(), nil
	}
}

// fetchCandidates always tries a direct fetch first, then the configured
// proxy templates in order.
func fetchCandidates(proxies []string) []string {
	out := []string{webtext.DirectCandidate}
	for _, p := range proxies {
		if p == webtext.DirectCandidate {
			continue
		}
		out = append(out, p)
	}
	return out
}
