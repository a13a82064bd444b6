package auth

import (
	"context"
	"sync"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

// UserStore is an in-memory UserStorage. Registrations are idempotent by
// name: a second RegisterUser for the same name overwrites the stored
// profile rather than failing, matching how an OAuth callback re-running
// for the same identity should behave.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]User)}
}

// RegisterUser stores (or replaces) a user's profile.
func (s *UserStore) RegisterUser(ctx context.Context, user User) error {
	if user.Name == "" {
		return apierrors.BadRequest("user name must not be empty")
	}

	s.mu.Lock()
	s.users[user.Name] = user
	s.mu.Unlock()
	return nil
}

// GetUser returns the stored profile for name, or NotFound.
func (s *UserStore) GetUser(ctx context.Context, name string) (*User, error) {
	s.mu.RLock()
	user, ok := s.users[name]
	s.mu.RUnlock()
	if !ok {
		return nil, apierrors.NotFound("user not registered")
	}
	return &user, nil
}
