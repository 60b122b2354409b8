package service

import (
	"testing"

	"github.com/authgate/authgate/internal/core/domain"
)

func TestAuthorize(t *testing.T) {
	user := &domain.Claims{Subject: "user", Groups: domain.RoleUser.Groups()}
	admin := &domain.Claims{Subject: "admin", Groups: domain.RoleAdmin.Groups()}

	tests := []struct {
		name     string
		claims   *domain.Claims
		required []string
		want     error
	}{
		{"no claims", nil, []string{domain.GroupUser}, domain.ErrUnauthenticated},
		{"user on user route", user, []string{domain.GroupUser, domain.GroupAdmin}, nil},
		{"admin on user route", admin, []string{domain.GroupUser, domain.GroupAdmin}, nil},
		{"user on admin route", user, []string{domain.GroupAdmin}, domain.ErrInsufficientRole},
		{"admin on admin route", admin, []string{domain.GroupAdmin}, nil},
		{"empty required set", admin, nil, domain.ErrInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.claims, tt.required...); got != tt.want {
				t.Fatalf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}
