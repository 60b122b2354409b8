package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authgate/authgate/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSigningConfig_RequiresAllFields(t *testing.T) {
	if _, err := NewHMACSigningConfig(nil, "iss", "aud"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewHMACSigningConfig([]byte("k"), "", "aud"); err == nil {
		t.Fatalf("expected error for empty issuer")
	}
	if _, err := NewHMACSigningConfig([]byte("k"), "iss", ""); err == nil {
		t.Fatalf("expected error for empty audience")
	}
	if _, err := NewRSASigningConfig([]byte("nope"), []byte("nope"), "iss", "aud"); err == nil {
		t.Fatalf("expected error for malformed PEM")
	}
}

func TestTokenService_UserTokenClaims(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, WithClock(fixedClock(now)))

	token, err := svc.IssueUserToken("alice", "alice@x.com", domain.RoleUser.Groups()...)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "alice" || claims.Email != "alice@x.com" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Issuer != "https://authgate.test" || !reflect.DeepEqual(claims.Audience, []string{"authgate-api"}) {
		t.Fatalf("unexpected iss/aud: %s %v", claims.Issuer, claims.Audience)
	}
	if !reflect.DeepEqual(claims.Groups, []string{domain.GroupUser}) {
		t.Fatalf("expected [user], got %v", claims.Groups)
	}
	if !claims.IssuedAt.Equal(now) || !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected iat/exp: %s %s", claims.IssuedAt, claims.ExpiresAt)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected jti")
	}
}

func TestTokenService_WireClaimNames(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.IssueAdminToken("root", "root@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, name := range []string{"iss", "aud", "sub", "email", "groups", "iat", "exp"} {
		if _, ok := raw[name]; !ok {
			t.Fatalf("missing claim %q in %v", name, raw)
		}
	}
	groups, ok := raw["groups"].([]any)
	if !ok || len(groups) != 2 || groups[0] != "admin" || groups[1] != "user" {
		t.Fatalf("unexpected groups claim: %v", raw["groups"])
	}
}

func TestTokenService_AdminTokenLivesEightHours(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, WithClock(fixedClock(now)))

	token, err := svc.IssueAdminToken("admin", "admin@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = fixedClock(now.Add(7*time.Hour + 59*time.Minute))
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("expected valid before exp, got %v", err)
	}

	svc.now = fixedClock(now.Add(8*time.Hour + time.Second))
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, WithClock(fixedClock(now)))

	token, err := svc.IssueUserToken("alice", "alice@x.com", domain.GroupUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = fixedClock(now.Add(59 * time.Minute))
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}

	svc.now = fixedClock(now.Add(2 * time.Hour))
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_CustomTTLs(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, WithClock(fixedClock(now)), WithTokenTTLs(15*time.Minute, 0))

	token, _ := svc.IssueUserToken("alice", "alice@x.com", domain.GroupUser)
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != 15*time.Minute {
		t.Fatalf("expected 15m ttl, got %s", got)
	}
	if svc.adminTTL != DefaultAdminTokenTTL {
		t.Fatalf("zero admin ttl must keep default, got %s", svc.adminTTL)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.IssueUserToken("alice", "alice@x.com", domain.GroupUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherKey, _ := NewHMACSigningConfig([]byte("other-secret"), "https://authgate.test", "authgate-api")
	otherIssuer, _ := NewHMACSigningConfig([]byte("secret"), "https://evil.test", "authgate-api")
	otherAudience, _ := NewHMACSigningConfig([]byte("secret"), "https://authgate.test", "billing")

	cases := map[string]*TokenService{
		"wrong key":      NewTokenService(otherKey),
		"wrong issuer":   NewTokenService(otherIssuer),
		"wrong audience": NewTokenService(otherAudience),
	}
	for name, verifier := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	for _, bad := range []string{"", "not-a-token", token[:len(token)-4] + "AAAA"} {
		if _, err := svc.Verify(bad); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", bad, err)
		}
	}
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestTokenService(t)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss":    "https://authgate.test",
		"aud":    "authgate-api",
		"sub":    "mallory",
		"groups": []string{"admin"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	cfg, err := NewRSASigningConfig(privPEM, pubPEM, "https://authgate.test", "authgate-api")
	if err != nil {
		t.Fatalf("rsa config: %v", err)
	}
	if cfg.Algorithm() != "RS256" {
		t.Fatalf("expected RS256, got %s", cfg.Algorithm())
	}

	svc := NewTokenService(cfg)
	token, err := svc.IssueAdminToken("admin", "admin@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !claims.HasGroup(domain.GroupAdmin) {
		t.Fatalf("expected admin group, got %v", claims.Groups)
	}

	// An HMAC verifier must not accept an RS256 token.
	if _, err := newTestTokenService(t).Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across algorithms, got %v", err)
	}
}

func TestTokenService_GroupsAreDeduplicated(t *testing.T) {
	svc := newTestTokenService(t)
	token, _ := svc.IssueUserToken("alice", "alice@x.com", "user", "user", "", "admin")
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if strings.Join(claims.Groups, ",") != "user,admin" {
		t.Fatalf("unexpected groups: %v", claims.Groups)
	}
}
