package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/authgate/authgate/users"
	"github.com/pkg/errors"
)

const usersTable = "users"

type userRow struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// insertUserRow omits store-assigned columns from the insert payload.
type insertUserRow struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

func (r userRow) toUser() *users.User {
	return &users.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

var _ users.Repo = (*UserRepo)(nil)

// UserRepo implements users.Repo over the store's users table.
type UserRepo struct {
	client *Client
}

func NewUserRepo(client *Client) *UserRepo {
	return &UserRepo{client: client}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("email", "eq."+email)
	query.Set("limit", "1")

	var rows []userRow
	if err := r.client.do(ctx, http.MethodGet, usersTable, query, nil, &rows); err != nil {
		return nil, errors.Wrap(err, "[UserRepo.GetByEmail]")
	}
	if len(rows) == 0 {
		return nil, users.ErrNotFound
	}
	return rows[0].toUser(), nil
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	var rows []userRow
	err := r.client.do(ctx, http.MethodPost, usersTable, nil, insertUserRow{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
	}, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.Create]")
	}
	if len(rows) == 0 {
		// No representation returned; the caller treats this as a failed write.
		return nil, nil
	}
	return rows[0].toUser(), nil
}
