package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/places"
	"github.com/octobees/presence-audit/internal/repository"
	"github.com/octobees/presence-audit/internal/service/benchmark"
	"github.com/octobees/presence-audit/internal/service/locator"
	"github.com/octobees/presence-audit/internal/service/recommend"
	"github.com/octobees/presence-audit/internal/service/scoring"
)

const (
	maxNotes        = 8
	liteDriftPoints = 15
)

// QuotaGovernor gates billable lookups per caller.
type QuotaGovernor interface {
	Consume(ctx context.Context, caller string, dailyLimit int) error
	Snapshot(ctx context.Context, caller string, dailyLimit int) (entity.QuotaUsage, error)
}

// StandardRequest identifies the business for a Standard audit. PlaceID wins
// over MapsURL, which wins over Query.
type StandardRequest struct {
	PlaceID string `json:"place_id"`
	MapsURL string `json:"maps_url"`
	Query   string `json:"query"`
}

// ProRequest identifies the business and search radius for a Pro audit.
type ProRequest struct {
	BusinessName string  `json:"business_name"`
	Location     string  `json:"location"`
	PlaceID      string  `json:"place_id"`
	RadiusMeters float64 `json:"radius_meters"`
	LiteScore    *int    `json:"lite_score"`
}

// AuditService wires lookups, scoring and recommendations into one result
// per tier.
type AuditService struct {
	provider   places.Provider
	normalizer places.Normalizer
	locator    *locator.Locator
	governor   QuotaGovernor
	audits     repository.AuditsRepository
	now        func() time.Time
	newID      func() string
	logger     *zap.Logger
}

// AuditOption configures optional dependencies.
type AuditOption func(*AuditService)

// WithAuditsRepository stores every finished live audit.
func WithAuditsRepository(repo repository.AuditsRepository) AuditOption {
	return func(s *AuditService) {
		s.audits = repo
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) AuditOption {
	return func(s *AuditService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the result id source.
func WithIDGenerator(fn func() string) AuditOption {
	return func(s *AuditService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) AuditOption {
	return func(s *AuditService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuditService builds the orchestrator.
func NewAuditService(provider places.Provider, normalizer places.Normalizer, loc *locator.Locator, governor QuotaGovernor, opts ...AuditOption) *AuditService {
	s := &AuditService{
		provider:   provider,
		normalizer: normalizer,
		locator:    loc,
		governor:   governor,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPredictions returns autocomplete suggestions. A blank query costs nothing.
func (s *AuditService) GetPredictions(ctx context.Context, caller, query string, dailyLimit int) ([]entity.PlacePrediction, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.PlacePrediction{}, nil
	}
	if err := places.Ready(s.provider); err != nil {
		return nil, err
	}
	if err := s.governor.Consume(ctx, caller, dailyLimit); err != nil {
		return nil, err
	}
	predictions, err := s.provider.Predict(ctx, query)
	if err != nil {
		return nil, providerError("autocomplete", err)
	}
	if predictions == nil {
		predictions = []entity.PlacePrediction{}
	}
	return predictions, nil
}

// AnalyzeStandard audits one business against up to five nearby competitors.
func (s *AuditService) AnalyzeStandard(ctx context.Context, caller string, req StandardRequest, dailyLimit int) (*entity.AnalysisResult, error) {
	if err := places.Ready(s.provider); err != nil {
		return nil, err
	}
	charge := s.charge(caller, dailyLimit)

	placeID, err := s.resolveStandard(ctx, req, charge)
	if err != nil {
		return nil, err
	}
	subject, err := s.lookupSubject(ctx, placeID, charge)
	if err != nil {
		return nil, err
	}

	competitors, err := s.locator.Standard(ctx, subject, charge)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bench := benchmark.Calculate(subject, competitors)
	scored := scoring.New(scoring.LiveStrategy{}).Score(scoring.Input{
		Profile:   &subject,
		Benchmark: &bench,
		Now:       now,
	})

	notes := scored.Notes
	if len(competitors) == 0 {
		notes = append(notes, "No nearby competitors could be profiled; benchmarks reflect your listing alone.")
	}

	result := &entity.AnalysisResult{
		ID:              s.newID(),
		Tier:            entity.TierStandard,
		Subject:         &subject,
		BusinessName:    subject.Name,
		Competitors:     competitors,
		Benchmarks:      &bench,
		Scores:          scored.Scores,
		OverallScore:    scored.Overall,
		Grade:           scored.Grade,
		Recommendations: recommend.Standard(subject, bench, now),
		GeneratedAt:     now,
		Notes:           CapNotes(notes, maxNotes),
	}
	s.finish(ctx, caller, dailyLimit, result)
	return result, nil
}

// CalculateSelfAudit scores checklist answers. It makes no external calls.
func (s *AuditService) CalculateSelfAudit(checklist entity.Checklist, inputs entity.SelfAuditInputs) *entity.AnalysisResult {
	return SelfAuditor{Now: s.now, NewID: s.newID}.CalculateSelfAudit(checklist, inputs)
}

// SelfAuditor scores a self-reported checklist. It needs no provider, quota
// or storage. Nil fields fall back to the wall clock and random UUIDs.
type SelfAuditor struct {
	Now   func() time.Time
	NewID func() string
}

// CalculateSelfAudit scores the checklist on the point table.
func (a SelfAuditor) CalculateSelfAudit(checklist entity.Checklist, inputs entity.SelfAuditInputs) *entity.AnalysisResult {
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.NewID == nil {
		a.NewID = uuid.NewString
	}
	now := a.Now()
	scored := scoring.New(scoring.NewPointTableStrategy()).Score(scoring.Input{
		Checklist: checklist,
		Answers:   inputs,
		Now:       now,
	})

	return &entity.AnalysisResult{
		ID:              a.NewID(),
		Tier:            entity.TierSelf,
		BusinessName:    strings.TrimSpace(inputs.BusinessName),
		Competitors:     []entity.CompetitorProfile{},
		Scores:          scored.Scores,
		OverallScore:    scored.Overall,
		Grade:           scored.Grade,
		Recommendations: recommend.SelfAudit(checklist, inputs),
		GeneratedAt:     now,
		Notes:           CapNotes(scored.Notes, maxNotes),
	}
}

// AnalyzePro audits one business against the ten strongest competitors in
// the chosen radius, with a website consistency check.
func (s *AuditService) AnalyzePro(ctx context.Context, caller string, req ProRequest, dailyLimit int) (*entity.AnalysisResult, error) {
	if err := places.Ready(s.provider); err != nil {
		return nil, err
	}
	charge := s.charge(caller, dailyLimit)

	placeID := strings.TrimSpace(req.PlaceID)
	if placeID == "" {
		query := strings.TrimSpace(strings.TrimSpace(req.BusinessName) + " " + strings.TrimSpace(req.Location))
		id, err := s.firstPrediction(ctx, query, charge)
		if err != nil {
			return nil, err
		}
		placeID = id
	}

	subject, err := s.lookupSubject(ctx, placeID, charge)
	if err != nil {
		return nil, err
	}

	nap, notes := s.locator.CheckNAP(ctx, subject)

	located, err := s.locator.Pro(ctx, subject, req.RadiusMeters, charge)
	if err != nil {
		return nil, err
	}
	notes = append(located.Notes, notes...)

	now := s.now()
	checklist, answers, bridgeNotes := scoring.FromProfile(subject, nap, now)
	scored := scoring.New(scoring.NewPointTableStrategy()).Score(scoring.Input{
		Checklist: checklist,
		Answers:   answers,
		Now:       now,
	})
	notes = append(notes, bridgeNotes...)

	if req.LiteScore != nil {
		if diff := scored.Overall - *req.LiteScore; diff > liteDriftPoints || diff < -liteDriftPoints {
			notes = append(notes, fmt.Sprintf(
				"Your self-audit score of %d differs from the measured %d; live data replaced the self-reported answers.",
				*req.LiteScore, scored.Overall))
		}
	}
	if len(located.Competitors) == 0 {
		notes = append(notes, "No nearby competitors could be profiled in the selected radius.")
	}

	bench := benchmark.Calculate(subject, located.Competitors)
	result := &entity.AnalysisResult{
		ID:                s.newID(),
		Tier:              entity.TierPro,
		Subject:           &subject,
		BusinessName:      firstNonEmpty(subject.Name, req.BusinessName),
		Competitors:       located.Competitors,
		Benchmarks:        &bench,
		Scores:            scored.Scores,
		OverallScore:      scored.Overall,
		Grade:             scored.Grade,
		Recommendations:   recommend.Pro(scored.Scores, located.Competitors),
		GeneratedAt:       now,
		Notes:             CapNotes(notes, maxNotes),
		NAP:               nap,
		SelfReportedScore: req.LiteScore,
	}
	s.finish(ctx, caller, dailyLimit, result)
	return result, nil
}

// QuotaUsage reports the caller's usage for today.
func (s *AuditService) QuotaUsage(ctx context.Context, caller string, dailyLimit int) (entity.QuotaUsage, error) {
	return s.governor.Snapshot(ctx, caller, dailyLimit)
}

// GetAudit loads one of the caller's stored results.
func (s *AuditService) GetAudit(ctx context.Context, caller string, id uuid.UUID) (*entity.AnalysisResult, error) {
	if s.audits == nil {
		return nil, repository.ErrAuditNotFound
	}
	return s.audits.Get(ctx, caller, id)
}

// ListAudits returns the caller's recent audits.
func (s *AuditService) ListAudits(ctx context.Context, caller string, limit int) ([]entity.AuditSummary, error) {
	if s.audits == nil {
		return []entity.AuditSummary{}, nil
	}
	return s.audits.ListByCaller(ctx, caller, limit)
}

func (s *AuditService) charge(caller string, dailyLimit int) locator.ChargeFunc {
	return func(ctx context.Context) error {
		return s.governor.Consume(ctx, caller, dailyLimit)
	}
}

func (s *AuditService) resolveStandard(ctx context.Context, req StandardRequest, charge locator.ChargeFunc) (string, error) {
	if id := strings.TrimSpace(req.PlaceID); id != "" {
		return id, nil
	}
	query := strings.TrimSpace(req.Query)
	if link := strings.TrimSpace(req.MapsURL); link != "" {
		ref, err := ResolveMapsURL(link)
		if err != nil {
			return "", err
		}
		if ref.PlaceID != "" {
			return ref.PlaceID, nil
		}
		query = ref.Query
	}
	return s.firstPrediction(ctx, query, charge)
}

func (s *AuditService) firstPrediction(ctx context.Context, query string, charge locator.ChargeFunc) (string, error) {
	if query == "" {
		return "", apperror.NotFound(query)
	}
	if err := charge(ctx); err != nil {
		return "", err
	}
	predictions, err := s.provider.Predict(ctx, query)
	if err != nil {
		return "", providerError("autocomplete", err)
	}
	for _, p := range predictions {
		if p.PlaceID != "" {
			return p.PlaceID, nil
		}
	}
	return "", apperror.NotFound(query)
}

func (s *AuditService) lookupSubject(ctx context.Context, placeID string, charge locator.ChargeFunc) (entity.PlaceProfile, error) {
	if err := charge(ctx); err != nil {
		return entity.PlaceProfile{}, err
	}
	raw, err := s.provider.Details(ctx, placeID, places.SubjectFields)
	if err != nil {
		return entity.PlaceProfile{}, providerError("place details", err)
	}
	subject := s.normalizer.Normalize(raw)
	if subject.ID == "" {
		subject.ID = placeID
	}
	if subject.Location == nil {
		return entity.PlaceProfile{}, apperror.MissingLocation(subject.ID)
	}
	return subject, nil
}

// Record stores a result computed outside the live tiers, such as a
// self-audit submitted over HTTP. A storage failure is logged only.
func (s *AuditService) Record(ctx context.Context, caller string, result *entity.AnalysisResult) {
	if result == nil {
		return
	}
	s.store(ctx, caller, result)
}

// finish attaches the quota snapshot and stores the result. Neither step can
// fail the audit.
func (s *AuditService) finish(ctx context.Context, caller string, dailyLimit int, result *entity.AnalysisResult) {
	if usage, err := s.governor.Snapshot(ctx, caller, dailyLimit); err == nil {
		result.Quota = &usage
	} else {
		s.logger.Warn("Quota snapshot failed", zap.String("caller", caller), zap.Error(err))
	}
	s.store(ctx, caller, result)
}

func (s *AuditService) store(ctx context.Context, caller string, result *entity.AnalysisResult) {
	if s.audits != nil {
		if err := s.audits.Save(ctx, caller, result); err != nil {
			s.logger.Error("Failed to store audit",
				zap.String("audit_id", result.ID),
				zap.String("tier", string(result.Tier)),
				zap.Error(err))
		}
	}

	s.logger.Info("Audit completed",
		zap.String("audit_id", result.ID),
		zap.String("tier", string(result.Tier)),
		zap.String("business", result.BusinessName),
		zap.Int("competitors", len(result.Competitors)),
		zap.Int("overall", result.OverallScore))
}

// CapNotes drops blank and repeated notes, keeping the first limit.
func CapNotes(notes []string, limit int) []string {
	seen := make(map[string]struct{}, len(notes))
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}

func providerError(operation string, err error) error {
	if apperror.CodeOf(err) != "" {
		return err
	}
	return apperror.ProviderUnavailable(operation, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
