package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/presence-audit/internal/auth"
	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/handler"
	middlewarepkg "github.com/octobees/presence-audit/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Audits *handler.AuditHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	api := e.Group("")
	api.Use(middlewarepkg.Caller(jwtManager))
	limited := middlewarepkg.AuditRateLimiter(cfg.RateLimitAudit)

	api.GET("/places/predictions", handlers.Audits.Predictions, limited)
	api.POST("/audits/self", handlers.Audits.SelfAudit)
	api.POST("/audits/standard", handlers.Audits.Standard, limited)
	api.POST("/audits/pro", handlers.Audits.Pro, middlewarepkg.RequirePlan(auth.PlanPro), limited)
	api.GET("/audits", handlers.Audits.List)
	api.GET("/audits/:id", handlers.Audits.Get)
	api.GET("/quota", handlers.Audits.Quota)
}
