package memory

import (
	"context"
	"sync"

	"github.com/minimart/minimart/internal/domain/user"
)

var _ user.Repository = (*Users)(nil)

// Users is the user directory store. IDs are assigned sequentially,
// continuing after the highest seeded ID.
type Users struct {
	mu     sync.RWMutex
	byName map[string]user.User
	nextID int64
}

// NewUsers creates a user store pre-populated with the given seed users.
func NewUsers(seed ...user.User) *Users {
	s := &Users{byName: make(map[string]user.User, len(seed))}
	for _, u := range seed {
		s.byName[u.Username] = u
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
	}
	return s
}

// FindByUsername returns the user or user.ErrNotFound.
func (s *Users) FindByUsername(_ context.Context, username string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byName[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

// Create registers a new non-admin user under the next sequential ID.
func (s *Users) Create(_ context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byName[username]; ok {
		return &u, nil
	}

	s.nextID++
	u := user.User{ID: s.nextID, Username: username}
	s.byName[username] = u
	return &u, nil
}
