package repofakes

import (
	"context"
	"sync"
	"time"

	"github.com/authgate/authgate/sessions"
	"github.com/google/uuid"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo for tests.
type FakeSessionRepo struct {
	lock    sync.RWMutex
	byToken map[string]sessions.Session
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{byToken: make(map[string]sessions.Session)}
}

func (r *FakeSessionRepo) Create(_ context.Context, session sessions.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	r.byToken[session.Token] = session
	return nil
}

func (r *FakeSessionRepo) GetActiveByToken(_ context.Context, token string, now time.Time) (*sessions.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	session, ok := r.byToken[token]
	if !ok || !session.ExpiresAt.After(now) {
		return nil, sessions.ErrNotFound
	}
	return &session, nil
}

func (r *FakeSessionRepo) DeleteByToken(_ context.Context, token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.byToken, token)
	return nil
}

// Count reports the number of stored rows, expired ones included.
func (r *FakeSessionRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.byToken)
}
