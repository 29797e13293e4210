package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/presence-audit/internal/apperror"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// AppError renders a coded audit error. Uncoded errors become a generic 500
// so internal details stay out of the response.
func AppError(c echo.Context, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return Error(c, http.StatusInternalServerError, "audit failed")
	}
	payload := APIResponse{
		Status:  "error",
		Message: appErr.Message,
		Code:    appErr.Code,
	}
	if appErr.Code == apperror.CodeRateLimitExceeded {
		payload.Data = appErr.Context
	}
	return c.JSON(StatusForCode(appErr.Code), payload)
}

// StatusForCode maps an error code onto an HTTP status.
func StatusForCode(code string) int {
	switch code {
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeInvalidReference:
		return http.StatusBadRequest
	case apperror.CodeMissingLocation:
		return http.StatusUnprocessableEntity
	case apperror.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperror.CodeProviderUnavailable:
		return http.StatusBadGateway
	case apperror.CodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
