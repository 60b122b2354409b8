package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// Auth verifies the bearer token and injects its claims into the context.
// Missing, malformed and expired tokens all fail with domain.ErrUnauthenticated.
func Auth(verifier ports.TokenVerifier, m *metrics.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				m.ObserveToken(metrics.TokenMissing)
				return domain.ErrUnauthenticated
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					m.ObserveToken(metrics.TokenExpired)
				} else {
					m.ObserveToken(metrics.TokenInvalid)
				}
				return domain.ErrUnauthenticated
			}

			m.ObserveToken(metrics.TokenValid)
			handler.SetClaims(c, claims)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
