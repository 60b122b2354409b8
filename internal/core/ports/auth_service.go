package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error)
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
}

// PasswordHasher turns plaintext credentials into comparable digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints signed tokens for authenticated users.
type TokenIssuer interface {
	IssueUserToken(username, email string, groups ...string) (string, error)
	IssueAdminToken(username, email string) (string, error)
}

// TokenVerifier validates a signed token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
