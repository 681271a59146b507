package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no user matches a username.
var ErrNotFound = errors.New("user not found")

// User is a directory entry. IDs are assigned sequentially by the store.
type User struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// Repository owns user storage. Create assigns the next sequential ID.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username string) (*User, error)
}

// Directory is the find-or-register user surface. Login never fails for a
// well-formed username.
type Directory struct {
	users Repository
}

// NewDirectory creates a Directory over the given repository.
func NewDirectory(users Repository) *Directory {
	return &Directory{users: users}
}

// Login returns the user matching username, registering a new non-admin user
// on first sight.
func (d *Directory) Login(ctx context.Context, username string) (*User, error) {
	u, err := d.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, ErrNotFound):
		return d.users.Create(ctx, username)
	default:
		return nil, errors.Wrap(err, "find user")
	}
}
