package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store caller metadata.
const (
	ContextKeyCaller    = "caller"
	ContextKeyPlan      = "plan"
	ContextKeyRequestID = "request_id"
)

// CallerFromContext returns the quota identity resolved by Caller.
func CallerFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyCaller).(string); ok {
		return val
	}
	return ""
}

// PlanFromContext returns the plan claim of an authenticated caller, if any.
func PlanFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyPlan).(string); ok {
		return val
	}
	return ""
}
