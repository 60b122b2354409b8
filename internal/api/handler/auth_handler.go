package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

const tokenType = "Bearer"

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Auth
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, m *metrics.Auth, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m, log: log}
}

// Register creates a new USER account and returns a token for it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.ObserveRegistration(metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.ObserveRegistration(metrics.OutcomeInvalid)
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		status, msg, outcome := http.StatusInternalServerError, "internal server error", metrics.OutcomeError
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			status, msg, outcome = http.StatusConflict, "Username already exists", metrics.OutcomeConflict
		case errors.Is(err, domain.ErrDuplicateEmail):
			status, msg, outcome = http.StatusConflict, "Email already exists", metrics.OutcomeConflict
		case errors.Is(err, domain.ErrInvalidInput):
			status, msg, outcome = http.StatusBadRequest, err.Error(), metrics.OutcomeInvalid
		default:
			h.log.Error().Err(err).Str("username", req.Username).Msg("register failed")
		}
		h.metrics.ObserveRegistration(outcome)
		return c.JSON(status, errorResponse{Error: msg})
	}

	h.metrics.ObserveRegistration(metrics.OutcomeSuccess)
	return c.JSON(http.StatusCreated, newAuthResponse(result))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		status, msg, outcome := http.StatusInternalServerError, "internal server error", metrics.OutcomeError
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			status, msg, outcome = http.StatusUnauthorized, "Invalid credentials", metrics.OutcomeFailure
		case errors.Is(err, domain.ErrTooManyAttempts):
			status, msg, outcome = http.StatusTooManyRequests, "too many login attempts", metrics.OutcomeThrottled
		default:
			h.log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		}
		h.metrics.ObserveLogin(outcome)
		return c.JSON(status, errorResponse{Error: msg})
	}

	h.metrics.ObserveLogin(metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, newAuthResponse(result))
}

func newAuthResponse(r *domain.AuthResult) authResponse {
	return authResponse{
		Token:    r.Token,
		Type:     tokenType,
		Username: r.Username,
		Email:    r.Email,
		Role:     string(r.Role),
	}
}
