package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/service"
)

const claimsKey = "auth.claims"

// SetClaims stores verified token claims on the request context.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims injected by the Auth middleware, or nil when
// the request carried no verified token.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}

// guard runs the access check at the top of a protected handler. It returns
// domain.ErrUnauthenticated or domain.ErrInsufficientRole for the central
// error handler to render.
func guard(c echo.Context, required ...string) (*domain.Claims, error) {
	claims := ClaimsFrom(c)
	if err := service.Authorize(claims, required...); err != nil {
		return nil, err
	}
	return claims, nil
}
