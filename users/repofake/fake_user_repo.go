package repofake

import (
	"context"
	"sync"

	"github.com/authgate/authgate/users"
	"github.com/google/uuid"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo for tests.
type FakeUserRepo struct {
	lock    sync.RWMutex
	byEmail map[string]users.User
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{byEmail: make(map[string]users.User)}
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &user, nil
}

func (r *FakeUserRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	created := *user
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	r.byEmail[created.Email] = created
	return &created, nil
}
