package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when no live session matches the token.
var ErrNotFound = errors.New("session not found")

// Repo is the gateway to the external User/Session Store for session records.
// Implementations must be safe for concurrent use.
type Repo interface {
	// Create persists a new session row.
	Create(ctx context.Context, session Session) error
	// GetActiveByToken returns the session with the exact token whose
	// expires_at is after now, or ErrNotFound. The expiry filter is applied
	// store-side so revoked and expired tokens are indistinguishable.
	GetActiveByToken(ctx context.Context, token string, now time.Time) (*Session, error)
	// DeleteByToken removes the session with the given token. Deleting a
	// token that has no session is not an error.
	DeleteByToken(ctx context.Context, token string) error
}
