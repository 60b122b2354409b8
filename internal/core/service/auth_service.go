package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// ActivityRecorder accepts audit events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// AuthService implements registration and login.
type AuthService struct {
	store    ports.CredentialStore
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	limiter  ports.LoginLimiter
	activity ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time

	// dummyDigest is verified against on unknown usernames so that both
	// failure branches of Login cost one hash comparison.
	dummyDigest string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

func WithActivityRecorder(r ActivityRecorder) AuthOption {
	return func(s *AuthService) { s.activity = r }
}

func WithLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	digest, err := hasher.Hash("authgate-unknown-user")
	if err != nil {
		s.log.Warn().Err(err).Msg("could not prepare login timing digest")
	}
	s.dummyDigest = digest
	return s
}

// Register creates a USER account and returns a user-tier token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	taken, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}

	taken, err = s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateEmail
	}

	created, err := s.createUser(ctx, username, email, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueUserToken(created.Username, created.Email, domain.RoleUser.Groups()...)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(domain.ActivityRegister, created.Username, true, "")
	s.log.Info().Str("username", created.Username).Msg("user registered")

	return &domain.AuthResult{
		Token:    token,
		Username: created.Username,
		Email:    created.Email,
		Role:     domain.RoleUser,
	}, nil
}

// Login verifies credentials and issues a token whose tier follows the role.
// Unknown users and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter check failed, continuing")
		} else if !allowed {
			s.record(domain.ActivityLoginFailure, username, false, "throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			s.loginFailed(ctx, username, "unknown_user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, username, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	var token string
	if user.Role == domain.RoleAdmin {
		token, err = s.tokens.IssueAdminToken(user.Username, user.Email)
	} else {
		token, err = s.tokens.IssueUserToken(user.Username, user.Email, user.Role.Groups()...)
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}
	s.record(domain.ActivityLoginSuccess, user.Username, true, "")

	return &domain.AuthResult{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// EnsureUser creates the account unless the username is already taken.
// It reports whether a new record was written.
func (s *AuthService) EnsureUser(ctx context.Context, username, email, password string, role domain.Role) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("ensure user %q: %w: role %q", username, domain.ErrInvalidInput, role)
	}

	exists, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("ensure user %q: %w", username, err)
	}
	if exists {
		return false, nil
	}

	if _, err := s.createUser(ctx, username, email, password, role); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			return false, nil
		}
		return false, fmt.Errorf("ensure user %q: %w", username, err)
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) {
	if s.limiter != nil {
		if err := s.limiter.Fail(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		}
	}
	s.record(domain.ActivityLoginFailure, username, false, reason)
}

func (s *AuthService) record(t domain.ActivityType, username string, success bool, reason string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEvent{
		Type:       t,
		Username:   username,
		Success:    success,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}
