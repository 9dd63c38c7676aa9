package sessions

import "time"

// Session is a server-side record binding an issued token to a user. One row
// is created per login; multiple concurrent sessions per user are permitted.
// Expired rows are filtered at lookup time, not eagerly deleted.
type Session struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"` // unique across all sessions
	ExpiresAt time.Time `json:"expires_at"`
}
