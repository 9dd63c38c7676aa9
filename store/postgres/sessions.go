package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/authgate/authgate/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, session sessions.Session) error {
	query := `INSERT INTO sessions (user_id, token, expires_at)
	          VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, session.UserID, session.Token, session.ExpiresAt); err != nil {
		return errors.Wrap(err, "[SessionRepo.Create] db error")
	}
	return nil
}

func (r *SessionRepo) GetActiveByToken(ctx context.Context, token string, now time.Time) (*sessions.Session, error) {
	query := `SELECT id, user_id, token, expires_at
	          FROM sessions
	          WHERE token = $1 AND expires_at > $2`

	session := &sessions.Session{}
	err := r.db.QueryRowContext(ctx, query, token, now).
		Scan(&session.ID, &session.UserID, &session.Token, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sessions.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.GetActiveByToken] db error")
	}
	return session, nil
}

func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return errors.Wrap(err, "[SessionRepo.DeleteByToken] db error")
	}
	return nil
}
