// Package memory provides process-local stores used by tests and STORE=memory.
package memory

import (
	"context"
	"sync"

	"github.com/authgate/authgate/internal/core/domain"
)

// UserRepository is a CredentialStore backed by maps. Uniqueness is checked
// and the record inserted under a single lock.
type UserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.User
	emails     map[string]struct{}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUsername: make(map[string]*domain.User),
		emails:     make(map[string]struct{}),
	}
}

func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.emails[email]
	return ok, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return nil, domain.ErrDuplicateUsername
	}
	if _, ok := r.emails[user.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}

	stored := *user
	r.byUsername[user.Username] = &stored
	r.emails[user.Email] = struct{}{}

	clone := stored
	return &clone, nil
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername)
}
