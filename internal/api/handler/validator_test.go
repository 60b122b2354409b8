package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/authgate/authgate/internal/core/domain"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&productRequest{Name: "Keyboard", SKU: "KB-1", StockQuantity: -1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "stock_quantity must be at least 0") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidator_CollectsEveryField(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"username is required", "email must be a valid email", "password is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %q", want, err.Error())
		}
	}
}

func TestValidator_PasswordLengthCap(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strings.Repeat("x", 73),
	})
	if err == nil || !strings.Contains(err.Error(), "password must be at most 72 characters") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_ValidRequest(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
