package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/core/domain"
)

type stubVerifier struct {
	claims *domain.Claims
	err    error
	got    string
}

func (s *stubVerifier) Verify(token string) (*domain.Claims, error) {
	s.got = token
	return s.claims, s.err
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.Claims{Subject: "alice", Groups: []string{"user"}}}
	c, rec := newContext("Bearer signed.jwt.value")

	called := false
	mw := Auth(verifier, nil)
	h := mw(func(c echo.Context) error {
		called = true
		claims := handler.ClaimsFrom(c)
		if claims == nil || claims.Subject != "alice" {
			t.Fatalf("claims not set: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.got != "signed.jwt.value" {
		t.Fatalf("verifier got %q", verifier.got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
	}{
		{"missing header", "", &stubVerifier{}},
		{"wrong scheme", "Token abc", &stubVerifier{}},
		{"empty token", "Bearer   ", &stubVerifier{}},
		{"invalid token", "Bearer not-a-token", &stubVerifier{err: domain.ErrInvalidToken}},
		{"expired token", "Bearer old", &stubVerifier{err: domain.ErrTokenExpired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.header)
			h := Auth(tt.verifier, nil)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := h(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	if tok, ok := bearerToken("bearer abc"); !ok || tok != "abc" {
		t.Fatalf("bearerToken = %q, %v", tok, ok)
	}
}
