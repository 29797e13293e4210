package apperror

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers.
const (
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidReference    = "INVALID_REFERENCE"
	CodeMissingLocation     = "MISSING_LOCATION"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
)

// Error is a fatal audit failure with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext attaches a key/value pair for logging.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// New builds an error with the given code.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Configuration reports a missing or invalid provider credential.
func Configuration(message string) *Error {
	return New(CodeConfiguration, message)
}

// NotFound reports that no business matched the query.
func NotFound(query string) *Error {
	return New(CodeNotFound, "no matching business found; refine the name or add the city").
		WithContext("query", query)
}

// InvalidReference reports a deep link without a usable place identifier.
func InvalidReference(ref string) *Error {
	return New(CodeInvalidReference, "the supplied link does not identify a business listing").
		WithContext("reference", ref)
}

// MissingLocation reports a subject without coordinates.
func MissingLocation(placeID string) *Error {
	return New(CodeMissingLocation, "business has no usable coordinates; competitor search is unavailable").
		WithContext("place_id", placeID)
}

// RateLimitExceeded reports that the daily lookup budget is spent.
func RateLimitExceeded(used, limit int) *Error {
	return New(CodeRateLimitExceeded, fmt.Sprintf("daily lookup limit of %d reached", limit)).
		WithContext("used", used).
		WithContext("limit", limit)
}

// ProviderUnavailable wraps a failed required lookup.
func ProviderUnavailable(operation string, cause error) *Error {
	return New(CodeProviderUnavailable, fmt.Sprintf("place data provider failed during %s", operation)).
		WithContext("operation", operation).
		WithCause(cause)
}

// CodeOf returns the code of the first *Error in the chain, or "".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
