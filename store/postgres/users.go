package postgres

import (
	"context"
	"database/sql"

	"github.com/authgate/authgate/users"
	"github.com/pkg/errors"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT id, email, name, password_hash, created_at
	          FROM users
	          WHERE email = $1`

	user := &users.User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.GetByEmail] db error")
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	// The unique index on email is the backstop for concurrent signups that
	// both pass the service-level existence check.
	query := `INSERT INTO users (email, name, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`

	created := *user
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Name, user.PasswordHash).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.Create] db error")
	}
	return &created, nil
}
