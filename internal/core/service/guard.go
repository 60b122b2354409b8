package service

import "github.com/authgate/authgate/internal/core/domain"

// Authorize is the access guard run at the top of every protected operation.
// It returns nil iff the claims carry at least one of the required groups.
func Authorize(claims *domain.Claims, required ...string) error {
	if claims == nil {
		return domain.ErrUnauthenticated
	}
	if !claims.HasAnyGroup(required...) {
		return domain.ErrInsufficientRole
	}
	return nil
}
