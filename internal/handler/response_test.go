package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/presence-audit/internal/apperror"
)

func TestSuccess(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Success(c, 0, "hello", map[string]string{"foo": "bar"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" || payload.Message != "hello" {
		t.Fatalf("unexpected response: %+v", payload)
	}
}

func TestError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Error(c, 0, "boom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected default status 500, got %d", rec.Code)
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "error" || payload.Message != "boom" {
		t.Fatalf("unexpected response: %+v", payload)
	}
}

func TestAppError(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
		code   string
	}{
		"not found":     {apperror.NotFound("x"), http.StatusNotFound, apperror.CodeNotFound},
		"bad reference": {apperror.InvalidReference("x"), http.StatusBadRequest, apperror.CodeInvalidReference},
		"no location":   {apperror.MissingLocation("p"), http.StatusUnprocessableEntity, apperror.CodeMissingLocation},
		"quota":         {apperror.RateLimitExceeded(8, 7), http.StatusTooManyRequests, apperror.CodeRateLimitExceeded},
		"provider":      {apperror.ProviderUnavailable("details", errors.New("x")), http.StatusBadGateway, apperror.CodeProviderUnavailable},
		"configuration": {apperror.Configuration("no key"), http.StatusServiceUnavailable, apperror.CodeConfiguration},
		"wrapped":       {errors.Join(errors.New("ctx"), apperror.NotFound("x")), http.StatusNotFound, apperror.CodeNotFound},
		"uncoded":       {errors.New("secret detail"), http.StatusInternalServerError, ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := AppError(c, tt.err); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			var payload APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if payload.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, payload.Code)
			}
			if payload.Message == "secret detail" {
				t.Fatalf("uncoded error leaked into response")
			}
		})
	}
}
