package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/core/domain"
)

func getContext(claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if claims != nil {
		SetClaims(c, claims)
	}
	return c, rec
}

func TestProtectedHandler_Public(t *testing.T) {
	h := NewProtectedHandler()
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }

	c, rec := getContext(nil)
	if err := h.Public(c); err != nil {
		t.Fatalf("public: %v", err)
	}
	if got := decodeBody(t, rec)["timestamp"]; got != float64(1700000000000) {
		t.Fatalf("unexpected timestamp %v", got)
	}
}

func TestProtectedHandler_GuardAtEntry(t *testing.T) {
	h := NewProtectedHandler()
	user := &domain.Claims{Subject: "alice", Groups: []string{domain.GroupUser}}
	admin := &domain.Claims{Subject: "root", Groups: []string{domain.GroupAdmin, domain.GroupUser}}

	tests := []struct {
		name    string
		fn      echo.HandlerFunc
		claims  *domain.Claims
		wantErr error
	}{
		{"user endpoint without claims", h.User, nil, domain.ErrUnauthenticated},
		{"user endpoint as user", h.User, user, nil},
		{"admin endpoint as user", h.Admin, user, domain.ErrInsufficientRole},
		{"admin endpoint as admin", h.Admin, admin, nil},
		{"profile as user", h.Profile, user, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := getContext(tt.claims)
			err := tt.fn(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got err=%v code=%d", err, rec.Code)
			}
		})
	}
}

func TestProtectedHandler_ProfileAccessLevel(t *testing.T) {
	h := NewProtectedHandler()

	c, rec := getContext(&domain.Claims{Subject: "alice", Groups: []string{domain.GroupUser}, TokenID: "jti-1"})
	_ = h.Profile(c)
	body := decodeBody(t, rec)
	if body["access_level"] != "LIMITED_ACCESS" || body["token_id"] != "jti-1" {
		t.Fatalf("unexpected user profile: %+v", body)
	}

	c, rec = getContext(&domain.Claims{Subject: "root", Groups: []string{domain.GroupAdmin, domain.GroupUser}})
	_ = h.Profile(c)
	if decodeBody(t, rec)["access_level"] != "FULL_ACCESS" {
		t.Fatalf("admin should get full access")
	}
}
