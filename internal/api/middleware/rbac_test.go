package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/core/domain"
)

func TestRequireGroups(t *testing.T) {
	tests := []struct {
		name    string
		claims  *domain.Claims
		groups  []string
		wantErr error
	}{
		{"admin reaches admin", &domain.Claims{Groups: []string{"admin", "user"}}, []string{"admin"}, nil},
		{"user reaches user-or-admin", &domain.Claims{Groups: []string{"user"}}, []string{"user", "admin"}, nil},
		{"user denied admin", &domain.Claims{Groups: []string{"user"}}, []string{"admin"}, domain.ErrInsufficientRole},
		{"no claims", nil, []string{"user"}, domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext("")
			if tt.claims != nil {
				handler.SetClaims(c, tt.claims)
			}

			called := false
			h := RequireGroups(nil, tt.groups...)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			err := h(c)
			if tt.wantErr == nil {
				if err != nil || !called || rec.Code != http.StatusOK {
					t.Fatalf("expected pass-through, got err=%v called=%v code=%d", err, called, rec.Code)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if called {
				t.Fatalf("next must not run on denial")
			}
		})
	}
}
