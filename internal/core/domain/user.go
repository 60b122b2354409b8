package domain

import "time"

// Role is the authorization tier stored with a user record.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Token groups. A token's groups are always derived from the user's role.
const (
	GroupUser  = "user"
	GroupAdmin = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Groups returns the token groups granted by the role.
// ADMIN implies membership in both admin and user.
func (r Role) Groups() []string {
	if r == RoleAdmin {
		return []string{GroupAdmin, GroupUser}
	}
	return []string{GroupUser}
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthResult is returned to the caller after a successful register or login.
type AuthResult struct {
	Token    string
	Username string
	Email    string
	Role     Role
}
