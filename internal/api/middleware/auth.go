package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-api/internal/api/metrics"
	"github.com/userhub/identity-api/internal/core/auth"
)

// PrincipalKey is the echo context key the Auth middleware stores the
// verified principal under.
const PrincipalKey = "principal"

// Auth gates protected routes: it extracts the bearer token, verifies it, and
// injects the resulting principal into the request context.
//
// Every verification failure (missing header, malformed token, bad signature,
// expired) collapses into the same 401 so callers cannot probe token
// structure or distinguish expiry from tampering.
func Auth(tokens *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set(PrincipalKey, claims.Principal())

			return next(c)
		}
	}
}
