package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/presence-audit/internal/auth"
)

// Caller resolves the quota identity for a request. A bearer token identifies
// the caller by its subject and carries the plan; anonymous requests are keyed
// by client address. A malformed or invalid token is rejected rather than
// downgraded to anonymous.
func Caller(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(ContextKeyCaller, "ip:"+c.RealIP())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			}

			claims, err := manager.ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(ContextKeyCaller, "sub:"+claims.Subject)
			c.Set(ContextKeyPlan, claims.Plan)

			return next(c)
		}
	}
}
