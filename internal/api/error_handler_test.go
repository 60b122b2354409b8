package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/pkg/logger"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"expired collapses", domain.ErrTokenExpired, http.StatusUnauthorized, "unauthenticated"},
		{"invalid collapses", fmt.Errorf("%w: bad sig", domain.ErrInvalidToken), http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", domain.ErrInsufficientRole, http.StatusForbidden, "forbidden"},
		{"dup username", domain.ErrDuplicateUsername, http.StatusConflict, "Username already exists"},
		{"dup email", domain.ErrDuplicateEmail, http.StatusConflict, "Email already exists"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many login attempts"},
		{"not found", fmt.Errorf("get: %w", domain.ErrProductNotFound), http.StatusNotFound, "product not found"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_LogsWithRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := zerolog.New(&buf).With().Str("request_id", "req-42").Logger()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req = req.WithContext(logger.WithContext(req.Context(), reqLog))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("connection reset by peer"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) || !strings.Contains(out, "unhandled error") {
		t.Fatalf("expected error logged on the request logger, got %q", out)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
