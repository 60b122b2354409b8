package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/service"
)

// RequireGroups admits requests whose claims carry at least one of groups.
// It must run after Auth.
func RequireGroups(m *metrics.Auth, groups ...string) echo.MiddlewareFunc {
	policy := strings.Join(groups, "|")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.Authorize(handler.ClaimsFrom(c), groups...); err != nil {
				m.ObserveAccess(policy, false)
				return err
			}
			m.ObserveAccess(policy, true)
			return next(c)
		}
	}
}
