package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/authgate/authgate/sessions"
	"github.com/pkg/errors"
)

const sessionsTable = "sessions"

type sessionRow struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var _ sessions.Repo = (*SessionRepo)(nil)

// SessionRepo implements sessions.Repo over the store's sessions table.
type SessionRepo struct {
	client *Client
}

func NewSessionRepo(client *Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session sessions.Session) error {
	err := r.client.do(ctx, http.MethodPost, sessionsTable, nil, sessionRow{
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC(),
	}, nil)
	return errors.Wrap(err, "[SessionRepo.Create]")
}

func (r *SessionRepo) GetActiveByToken(ctx context.Context, token string, now time.Time) (*sessions.Session, error) {
	// The expiry filter is applied store-side, matching the row layout's
	// contract that expired rows persist but never authenticate.
	query := url.Values{}
	query.Set("select", "*")
	query.Set("token", "eq."+token)
	query.Set("expires_at", "gt."+now.UTC().Format(time.RFC3339))
	query.Set("limit", "1")

	var rows []sessionRow
	if err := r.client.do(ctx, http.MethodGet, sessionsTable, query, nil, &rows); err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.GetActiveByToken]")
	}
	if len(rows) == 0 {
		return nil, sessions.ErrNotFound
	}
	row := rows[0]
	return &sessions.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	query := url.Values{}
	query.Set("token", "eq."+token)

	err := r.client.do(ctx, http.MethodDelete, sessionsTable, query, nil, nil)
	return errors.Wrap(err, "[SessionRepo.DeleteByToken]")
}
