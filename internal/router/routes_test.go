package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/presence-audit/internal/auth"
	"github.com/octobees/presence-audit/internal/config"
	"github.com/octobees/presence-audit/internal/handler"
	"github.com/octobees/presence-audit/internal/places"
	"github.com/octobees/presence-audit/internal/quota"
	"github.com/octobees/presence-audit/internal/service"
	"github.com/octobees/presence-audit/internal/service/locator"
)

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTManager) {
	t.Helper()
	provider := places.Unconfigured{}
	loc := locator.New(provider, places.Normalizer{})
	audits := service.NewAuditService(provider, places.Normalizer{}, loc, quota.NewGovernor(quota.NewMemoryStore()))

	cfg := &config.Config{RateLimitAudit: config.RateLimitConfig{Requests: 100, Interval: time.Minute}}
	manager := auth.NewJWTManager("secret", time.Hour)

	e := echo.New()
	Register(e, cfg, manager, Handlers{
		Audits: handler.NewAuditHandler(audits, handler.Limits{Daily: 10, ProDaily: 20}, zap.NewNop()),
	})
	return e, manager
}

func TestRoutes(t *testing.T) {
	e, manager := newTestServer(t)
	standardToken, _ := manager.GenerateToken("acct-1", "standard")
	proToken, _ := manager.GenerateToken("acct-2", auth.PlanPro)

	tests := map[string]struct {
		method string
		path   string
		body   string
		token  string
		status int
	}{
		"health":             {http.MethodGet, "/healthz", "", "", http.StatusOK},
		"blank predictions":  {http.MethodGet, "/places/predictions?q=", "", "", http.StatusOK},
		"self audit":         {http.MethodPost, "/audits/self", `{"checklist":{"has_phone":true}}`, "", http.StatusOK},
		"quota":              {http.MethodGet, "/quota", "", "", http.StatusOK},
		"pro anonymous":      {http.MethodPost, "/audits/pro", `{"business_name":"Acme"}`, "", http.StatusForbidden},
		"pro wrong plan":     {http.MethodPost, "/audits/pro", `{"business_name":"Acme"}`, standardToken, http.StatusForbidden},
		"pro not configured": {http.MethodPost, "/audits/pro", `{"business_name":"Acme"}`, proToken, http.StatusServiceUnavailable},
		"bad token":          {http.MethodGet, "/quota", "", "garbage", http.StatusUnauthorized},
		"unknown audit":      {http.MethodGet, "/audits/6f1c2a8e-4b7d-4f1a-9c3e-2d5b8a7e6f10", "", "", http.StatusNotFound},
		"history":            {http.MethodGet, "/audits", "", proToken, http.StatusOK},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("%s %s: expected %d, got %d (%s)", tt.method, tt.path, tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}
