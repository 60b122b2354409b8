package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/core/domain"
)

// ProtectedHandler serves demonstration resources behind the access guard.
// Each handler checks its own policy even when a route middleware already did.
type ProtectedHandler struct {
	now func() time.Time
}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{now: time.Now}
}

// Public handles GET /protected/public.
func (h *ProtectedHandler) Public(c echo.Context) error {
	return c.JSON(http.StatusOK, publicResponse{
		Message:   "This is a public endpoint, no authentication required!",
		Timestamp: h.now().UnixMilli(),
	})
}

// User handles GET /protected/user.
func (h *ProtectedHandler) User(c echo.Context) error {
	claims, err := guard(c, domain.GroupUser, domain.GroupAdmin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userInfoResponse{
		Message:   "Hello, authenticated user!",
		Username:  claims.Subject,
		Email:     claims.Email,
		Groups:    claims.Groups,
		Issuer:    claims.Issuer,
		Audience:  claims.Audience,
		ExpiresAt: claims.ExpiresAt.UTC(),
	})
}

// Admin handles GET /protected/admin.
func (h *ProtectedHandler) Admin(c echo.Context) error {
	claims, err := guard(c, domain.GroupAdmin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminInfoResponse{
		Message:  "Hello, admin user!",
		Username: claims.Subject,
		Email:    claims.Email,
		Groups:   claims.Groups,
		IsAdmin:  claims.HasGroup(domain.GroupAdmin),
	})
}

// Profile handles GET /protected/profile. The access level follows the groups.
func (h *ProtectedHandler) Profile(c echo.Context) error {
	claims, err := guard(c, domain.GroupUser, domain.GroupAdmin)
	if err != nil {
		return err
	}

	resp := profileResponse{
		Username:    claims.Subject,
		Email:       claims.Email,
		Roles:       claims.Groups,
		Subject:     claims.Subject,
		TokenID:     claims.TokenID,
		AccessLevel: "LIMITED_ACCESS",
		Permissions: []string{"READ", "WRITE"},
	}
	if claims.HasGroup(domain.GroupAdmin) {
		resp.AccessLevel = "FULL_ACCESS"
		resp.Permissions = []string{"READ", "WRITE", "DELETE", "ADMIN"}
	}
	return c.JSON(http.StatusOK, resp)
}
