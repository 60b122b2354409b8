// Package seed provisions initial accounts at startup.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/authgate/authgate/internal/core/domain"
)

// Account is one entry of a users file.
type Account struct {
	Username string      `yaml:"username"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     domain.Role `yaml:"role"`
}

type usersFile struct {
	Users []Account `yaml:"users"`
}

// Provisioner creates an account unless it already exists.
type Provisioner interface {
	EnsureUser(ctx context.Context, username, email, password string, role domain.Role) (bool, error)
}

// DefaultAccounts are created when no users file is configured.
func DefaultAccounts() []Account {
	return []Account{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
		{Username: "user", Email: "user@example.com", Password: "user123", Role: domain.RoleUser},
	}
}

// LoadFile reads accounts from a YAML document of the form
//
//	users:
//	  - username: admin
//	    email: admin@example.com
//	    password: admin123
//	    role: ADMIN
func LoadFile(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	for i := range uf.Users {
		uf.Users[i].Role = domain.Role(strings.ToUpper(string(uf.Users[i].Role)))
		if uf.Users[i].Role == "" {
			uf.Users[i].Role = domain.RoleUser
		}
	}
	return uf.Users, nil
}

// Run provisions accounts and returns how many were newly created. Entries
// missing a username or password are skipped.
func Run(ctx context.Context, p Provisioner, accounts []Account, log zerolog.Logger) (int, error) {
	created := 0
	for _, a := range accounts {
		if a.Username == "" || a.Password == "" {
			log.Warn().Str("username", a.Username).Msg("seed entry incomplete, skipped")
			continue
		}
		email := a.Email
		if email == "" {
			email = a.Username + "@example.com"
		}

		ok, err := p.EnsureUser(ctx, a.Username, email, a.Password, a.Role)
		if err != nil {
			return created, err
		}
		if ok {
			created++
			log.Info().Str("username", a.Username).Str("role", string(a.Role)).Msg("seeded user")
		}
	}
	return created, nil
}
