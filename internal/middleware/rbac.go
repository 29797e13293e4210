package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequirePlan enforces that the authenticated caller holds the expected plan.
func RequirePlan(plan string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value := PlanFromContext(c)
			if value == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "authentication required"})
			}
			if value != plan {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "plan does not include this audit"})
			}
			return next(c)
		}
	}
}
