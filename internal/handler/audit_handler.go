package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/auth"
	"github.com/octobees/presence-audit/internal/dto"
	"github.com/octobees/presence-audit/internal/entity"
	middleware "github.com/octobees/presence-audit/internal/middleware"
	"github.com/octobees/presence-audit/internal/repository"
	"github.com/octobees/presence-audit/internal/service"
	"github.com/octobees/presence-audit/internal/service/locator"
)

const (
	defaultProRadiusMiles = 3
	maxQueryLength        = 200
)

// Auditor is the slice of the audit service the HTTP layer depends on.
type Auditor interface {
	GetPredictions(ctx context.Context, caller, query string, dailyLimit int) ([]entity.PlacePrediction, error)
	AnalyzeStandard(ctx context.Context, caller string, req service.StandardRequest, dailyLimit int) (*entity.AnalysisResult, error)
	CalculateSelfAudit(checklist entity.Checklist, inputs entity.SelfAuditInputs) *entity.AnalysisResult
	Record(ctx context.Context, caller string, result *entity.AnalysisResult)
	AnalyzePro(ctx context.Context, caller string, req service.ProRequest, dailyLimit int) (*entity.AnalysisResult, error)
	QuotaUsage(ctx context.Context, caller string, dailyLimit int) (entity.QuotaUsage, error)
	GetAudit(ctx context.Context, caller string, id uuid.UUID) (*entity.AnalysisResult, error)
	ListAudits(ctx context.Context, caller string, limit int) ([]entity.AuditSummary, error)
}

// Limits holds the per-caller daily lookup budgets.
type Limits struct {
	Daily    int
	ProDaily int
}

// AuditHandler exposes the three audit tiers over HTTP.
type AuditHandler struct {
	audits Auditor
	limits Limits
	logger *zap.Logger
}

// NewAuditHandler creates a new handler instance.
func NewAuditHandler(audits Auditor, limits Limits, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{audits: audits, limits: limits, logger: logger}
}

// Predictions handles GET /places/predictions?q=.
func (h *AuditHandler) Predictions(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len(query) > maxQueryLength {
		return Error(c, http.StatusBadRequest, "query is too long")
	}

	predictions, err := h.audits.GetPredictions(c.Request().Context(), middleware.CallerFromContext(c), query, h.limits.Daily)
	if err != nil {
		return h.fail(c, "predictions", err)
	}
	return Success(c, http.StatusOK, "predictions retrieved", predictions)
}

// SelfAudit handles POST /audits/self.
func (h *AuditHandler) SelfAudit(c echo.Context) error {
	var req dto.SelfAuditRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result := h.audits.CalculateSelfAudit(req.Checklist, req.Inputs)
	h.audits.Record(c.Request().Context(), middleware.CallerFromContext(c), result)
	return Success(c, http.StatusOK, "self-audit scored", result)
}

// Standard handles POST /audits/standard.
func (h *AuditHandler) Standard(c echo.Context) error {
	var req dto.StandardAuditRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	in := service.StandardRequest{
		PlaceID: strings.TrimSpace(req.PlaceID),
		MapsURL: strings.TrimSpace(req.MapsURL),
		Query:   strings.TrimSpace(req.Query),
	}
	if in.PlaceID == "" && in.MapsURL == "" && in.Query == "" {
		return Error(c, http.StatusBadRequest, "place_id, maps_url or query is required")
	}

	result, err := h.audits.AnalyzeStandard(c.Request().Context(), middleware.CallerFromContext(c), in, h.limits.Daily)
	if err != nil {
		return h.fail(c, "standard", err)
	}
	return Success(c, http.StatusOK, "standard audit completed", result)
}

// Pro handles POST /audits/pro.
func (h *AuditHandler) Pro(c echo.Context) error {
	var req dto.ProAuditRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	in := service.ProRequest{
		BusinessName: strings.TrimSpace(req.BusinessName),
		Location:     strings.TrimSpace(req.Location),
		PlaceID:      strings.TrimSpace(req.PlaceID),
		RadiusMeters: req.RadiusMeters,
		LiteScore:    req.LiteScore,
	}
	if in.PlaceID == "" && in.BusinessName == "" {
		return Error(c, http.StatusBadRequest, "business_name or place_id is required")
	}
	if req.RadiusMiles < 0 || req.RadiusMeters < 0 {
		return Error(c, http.StatusBadRequest, "radius must be positive")
	}
	if req.LiteScore != nil && (*req.LiteScore < 0 || *req.LiteScore > 100) {
		return Error(c, http.StatusBadRequest, "lite_score must be between 0 and 100")
	}
	switch {
	case req.RadiusMiles > 0:
		in.RadiusMeters = locator.MilesToMeters(req.RadiusMiles)
	case in.RadiusMeters == 0:
		in.RadiusMeters = locator.MilesToMeters(defaultProRadiusMiles)
	}

	result, err := h.audits.AnalyzePro(c.Request().Context(), middleware.CallerFromContext(c), in, h.limits.ProDaily)
	if err != nil {
		return h.fail(c, "pro", err)
	}
	return Success(c, http.StatusOK, "pro audit completed", result)
}

// Quota handles GET /quota.
func (h *AuditHandler) Quota(c echo.Context) error {
	limit := h.limits.Daily
	if middleware.PlanFromContext(c) == auth.PlanPro {
		limit = h.limits.ProDaily
	}
	usage, err := h.audits.QuotaUsage(c.Request().Context(), middleware.CallerFromContext(c), limit)
	if err != nil {
		h.logger.Error("quota lookup failed", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to read quota")
	}
	return Success(c, http.StatusOK, "quota retrieved", usage)
}

// Get handles GET /audits/:id.
func (h *AuditHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid audit id")
	}

	result, err := h.audits.GetAudit(c.Request().Context(), middleware.CallerFromContext(c), id)
	if errors.Is(err, repository.ErrAuditNotFound) {
		return Error(c, http.StatusNotFound, "audit not found")
	}
	if err != nil {
		h.logger.Error("load audit failed", zap.String("audit_id", id.String()), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to load audit")
	}
	return Success(c, http.StatusOK, "audit retrieved", result)
}

// List handles GET /audits for the current caller.
func (h *AuditHandler) List(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 20)

	summaries, err := h.audits.ListAudits(c.Request().Context(), middleware.CallerFromContext(c), limit)
	if err != nil {
		h.logger.Error("list audits failed", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "failed to list audits")
	}
	return Success(c, http.StatusOK, "audits retrieved", summaries)
}

func (h *AuditHandler) fail(c echo.Context, tier string, err error) error {
	h.logger.Warn("audit failed",
		zap.String("tier", tier),
		zap.String("request_id", middleware.RequestIDFromContext(c)),
		zap.Error(err))
	return AppError(c, err)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
