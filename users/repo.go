package users

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by repositories when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repo is the gateway to the external User/Session Store for user records.
// Implementations must be safe for concurrent use.
type Repo interface {
	// GetByEmail returns the user with the given email or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Create inserts a new user and returns the written row, including the
	// store-assigned ID.
	Create(ctx context.Context, user *User) (*User, error)
}
