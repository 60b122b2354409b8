package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// CredentialStore persists user records and answers identity lookups.
//
// The Exists checks are advisory. Create must enforce username and email
// uniqueness itself and return domain.ErrDuplicateUsername or
// domain.ErrDuplicateEmail when a concurrent writer won the race.
type CredentialStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByUsername returns domain.ErrUserNotFound when no record matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// LoginLimiter throttles repeated failed logins for the same key.
type LoginLimiter interface {
	// Allowed reports whether another attempt may be made for key.
	Allowed(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset clears the failure counter for key.
	Reset(ctx context.Context, key string) error
}
