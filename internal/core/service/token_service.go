package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authgate/authgate/internal/core/domain"
)

const (
	DefaultUserTokenTTL  = time.Hour
	DefaultAdminTokenTTL = 8 * time.Hour
)

// SigningConfig holds the key material and static claims used to sign and
// verify tokens. It is built once at startup and never mutated.
type SigningConfig struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	audience  string
}

// NewHMACSigningConfig configures HS256 signing with a shared secret.
func NewHMACSigningConfig(secret []byte, issuer, audience string) (SigningConfig, error) {
	if len(secret) == 0 {
		return SigningConfig{}, errors.New("signing config: empty secret")
	}
	if err := checkStaticClaims(issuer, audience); err != nil {
		return SigningConfig{}, err
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return SigningConfig{
		method:    jwt.SigningMethodHS256,
		signKey:   key,
		verifyKey: key,
		issuer:    issuer,
		audience:  audience,
	}, nil
}

// NewRSASigningConfig configures RS256 signing from PEM encoded keys.
func NewRSASigningConfig(privatePEM, publicPEM []byte, issuer, audience string) (SigningConfig, error) {
	if err := checkStaticClaims(issuer, audience); err != nil {
		return SigningConfig{}, err
	}

	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return SigningConfig{}, fmt.Errorf("signing config: private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return SigningConfig{}, fmt.Errorf("signing config: public key: %w", err)
	}

	return SigningConfig{
		method:    jwt.SigningMethodRS256,
		signKey:   priv,
		verifyKey: pub,
		issuer:    issuer,
		audience:  audience,
	}, nil
}

func checkStaticClaims(issuer, audience string) error {
	if issuer == "" {
		return errors.New("signing config: empty issuer")
	}
	if audience == "" {
		return errors.New("signing config: empty audience")
	}
	return nil
}

func (c SigningConfig) Issuer() string    { return c.issuer }
func (c SigningConfig) Audience() string  { return c.audience }
func (c SigningConfig) Algorithm() string { return c.method.Alg() }

// tokenClaims is the wire shape: iss, aud, sub, email, groups, iat, exp, jti.
type tokenClaims struct {
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded tokens.
type TokenService struct {
	cfg      SigningConfig
	userTTL  time.Duration
	adminTTL time.Duration
	now      func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithTokenTTLs overrides the user and admin token lifetimes. Non-positive
// values keep the defaults.
func WithTokenTTLs(user, admin time.Duration) TokenOption {
	return func(s *TokenService) {
		if user > 0 {
			s.userTTL = user
		}
		if admin > 0 {
			s.adminTTL = admin
		}
	}
}

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg SigningConfig, opts ...TokenOption) *TokenService {
	s := &TokenService{
		cfg:      cfg,
		userTTL:  DefaultUserTokenTTL,
		adminTTL: DefaultAdminTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueUserToken mints a regular session token with caller-supplied groups.
func (s *TokenService) IssueUserToken(username, email string, groups ...string) (string, error) {
	return s.Issue(username, email, groups, s.userTTL)
}

// IssueAdminToken mints a long-lived token carrying the admin and user groups.
func (s *TokenService) IssueAdminToken(username, email string) (string, error) {
	return s.Issue(username, email, domain.RoleAdmin.Groups(), s.adminTTL)
}

// Issue signs a token for subject that expires after ttl.
func (s *TokenService) Issue(subject, email string, groups []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}
	if ttl <= 0 {
		return "", errors.New("issue token: non-positive ttl")
	}

	now := s.now()
	claims := tokenClaims{
		Email:  email,
		Groups: uniqueGroups(groups),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.cfg.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.cfg.method, claims).SignedString(s.cfg.signKey)
	if err != nil {
		return "", fmt.Errorf("issue token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry.
// It returns domain.ErrTokenExpired for a correctly signed token past its
// expiry and domain.ErrInvalidToken for every other failure.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.cfg.verifyKey, nil },
		jwt.WithValidMethods([]string{s.cfg.method.Alg()}),
		jwt.WithIssuer(s.cfg.issuer),
		jwt.WithAudience(s.cfg.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Issuer:   claims.Issuer,
		Audience: []string(claims.Audience),
		Groups:   claims.Groups,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func uniqueGroups(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
