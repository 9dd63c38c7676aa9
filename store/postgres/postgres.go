// Package postgres implements the User/Session Store gateways over a direct
// Postgres connection, for self-hosted deployments that skip the hosted
// table API. Schema management is embedded goose migrations.
package postgres

import (
	"context"
	"database/sql"

	"github.com/authgate/authgate/sessions"
	"github.com/authgate/authgate/store/postgres/migrations"
	"github.com/authgate/authgate/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Store bundles the repositories sharing one connection pool. *sql.DB is
// safe for concurrent use; no additional locking is needed.
type Store struct {
	db       *sql.DB
	users    *UserRepo
	sessions *SessionRepo
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Open] sql.Open")
	}
	return &Store{
		db:       db,
		users:    NewUserRepo(db),
		sessions: NewSessionRepo(db),
	}, nil
}

func (s *Store) Users() users.Repo {
	return s.users
}

func (s *Store) Sessions() sessions.Repo {
	return s.sessions
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations applies the embedded schema migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "[Store.RunMigrations] SetDialect")
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return errors.Wrap(err, "[Store.RunMigrations] UpContext")
	}
	return nil
}
