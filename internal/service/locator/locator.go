// Package locator finds and profiles the subject's nearby competitors.
package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/places"
	"github.com/octobees/presence-audit/internal/service/scoring"
	"github.com/octobees/presence-audit/internal/webtext"
)

const (
	defaultPhoneRegion    = "US"
	standardCompetitors   = 5
	proCompetitors        = 10
	defaultStandardRadius = 3000.0
)

// ChargeFunc consumes one unit of the caller's daily budget before a
// billable lookup.
type ChargeFunc func(ctx context.Context) error

// Locator runs competitor searches one lookup at a time.
type Locator struct {
	provider       places.Provider
	normalizer     places.Normalizer
	fetcher        webtext.TextFetcher
	phoneRegion    string
	standardRadius float64
	now            func() time.Time
	logger         *zap.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithFetcher enables the website consistency check.
func WithFetcher(f webtext.TextFetcher) Option {
	return func(l *Locator) {
		l.fetcher = f
	}
}

// WithPhoneRegion sets the region used to parse listing phone numbers.
func WithPhoneRegion(region string) Option {
	return func(l *Locator) {
		if region != "" {
			l.phoneRegion = region
		}
	}
}

// WithStandardRadius sets the Standard search radius in meters.
func WithStandardRadius(meters float64) Option {
	return func(l *Locator) {
		if meters > 0 {
			l.standardRadius = meters
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Locator) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New builds a Locator.
func New(provider places.Provider, normalizer places.Normalizer, opts ...Option) *Locator {
	l := &Locator{
		provider:       provider,
		normalizer:     normalizer,
		phoneRegion:    defaultPhoneRegion,
		standardRadius: defaultStandardRadius,
		now:            time.Now,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Standard searches around the subject with its category hint and profiles
// the first five other businesses in provider order.
func (l *Locator) Standard(ctx context.Context, subject entity.PlaceProfile, charge ChargeFunc) ([]entity.CompetitorProfile, error) {
	candidates, err := l.search(ctx, subject, l.standardRadius, charge)
	if err != nil {
		return nil, err
	}
	if len(candidates) > standardCompetitors {
		candidates = candidates[:standardCompetitors]
	}

	competitors := make([]entity.CompetitorProfile, 0, len(candidates))
	for _, c := range candidates {
		profile, ok, err := l.details(ctx, c.ID, charge)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		competitors = append(competitors, entity.NewCompetitorProfile(profile))
	}
	return competitors, nil
}

// ProResult carries the Pro competitor set and the radius actually used.
type ProResult struct {
	Competitors  []entity.CompetitorProfile
	RadiusMeters float64
	Notes        []string
}

// Pro searches the snapped radius, keeps the ten strongest candidates by
// rating times review count, and scores each on the point table.
func (l *Locator) Pro(ctx context.Context, subject entity.PlaceProfile, radiusMeters float64, charge ChargeFunc) (ProResult, error) {
	radius, changed := SnapRadius(radiusMeters)
	result := ProResult{RadiusMeters: radius, Competitors: []entity.CompetitorProfile{}}
	if changed {
		result.Notes = append(result.Notes,
			fmt.Sprintf("Search radius adjusted to %.0f miles, the nearest supported option.", radius/metersPerMile))
	}

	candidates, err := l.search(ctx, subject, radius, charge)
	if err != nil {
		return result, err
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return strength(candidates[i]) > strength(candidates[j])
	})
	if len(candidates) > proCompetitors {
		candidates = candidates[:proCompetitors]
	}

	scorer := scoring.New(scoring.NewPointTableStrategy())
	now := l.now()
	for _, c := range candidates {
		profile, ok, err := l.details(ctx, c.ID, charge)
		if err != nil {
			return result, err
		}
		if !ok {
			continue
		}

		checklist, answers, _ := scoring.FromProfile(profile, nil, now)
		scored := scorer.Score(scoring.Input{Checklist: checklist, Answers: answers, Now: now})

		opts := []entity.CompetitorOption{entity.WithScores(scored.Scores, scored.Overall)}
		if subject.Location != nil && profile.Location != nil {
			opts = append(opts, entity.WithDistance(DistanceMiles(*subject.Location, *profile.Location)))
		}
		result.Competitors = append(result.Competitors, entity.NewCompetitorProfile(profile, opts...))
	}
	return result, nil
}

func strength(p entity.PlaceProfile) float64 {
	return p.Rating * float64(p.ReviewCount)
}

// search runs the billable nearby search and drops the subject itself.
func (l *Locator) search(ctx context.Context, subject entity.PlaceProfile, radius float64, charge ChargeFunc) ([]entity.PlaceProfile, error) {
	if subject.Location == nil {
		return nil, apperror.MissingLocation(subject.ID)
	}
	if err := charge(ctx); err != nil {
		return nil, err
	}

	raws, err := l.provider.NearbySearch(ctx, places.NearbyRequest{
		Location:     *subject.Location,
		RadiusMeters: radius,
		CategoryHint: scoring.PrimaryCategory(subject.Categories),
	})
	if err != nil {
		if apperror.CodeOf(err) == "" {
			err = apperror.ProviderUnavailable("nearby search", err)
		}
		return nil, err
	}

	candidates := make([]entity.PlaceProfile, 0, len(raws))
	for _, raw := range raws {
		p := l.normalizer.Normalize(raw)
		if p.ID == "" || p.ID == subject.ID {
			continue
		}
		candidates = append(candidates, p)
	}

	l.logger.Debug("Nearby search completed",
		zap.String("subject", subject.ID),
		zap.Float64("radius_m", radius),
		zap.Int("results", len(raws)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// details fetches one competitor. Quota errors are returned; any provider
// failure or panic drops the competitor with ok=false.
func (l *Locator) details(ctx context.Context, placeID string, charge ChargeFunc) (entity.PlaceProfile, bool, error) {
	if err := charge(ctx); err != nil {
		return entity.PlaceProfile{}, false, err
	}

	var (
		raw   json.RawMessage
		err   error
		catch panics.Catcher
	)
	catch.Try(func() {
		raw, err = l.provider.Details(ctx, placeID, places.CompetitorFields)
	})
	if recovered := catch.Recovered(); recovered != nil {
		err = recovered.AsError()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.PlaceProfile{}, false, apperror.ProviderUnavailable("competitor details", ctxErr)
		}
		l.logger.Warn("Skipping competitor after failed lookup",
			zap.String("place_id", placeID),
			zap.Error(err))
		return entity.PlaceProfile{}, false, nil
	}

	profile := l.normalizer.Normalize(raw)
	if profile.ID == "" {
		profile.ID = placeID
	}
	return profile, true, nil
}
