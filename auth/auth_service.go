// Package auth implements the session and credential lifecycle: signup,
// login, per-request authentication, and logout. All durable state lives in
// the external User/Session Store behind the Repos gateways; the service
// itself holds only read-only configuration.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/authgate/authgate/sessions"
	"github.com/authgate/authgate/token"
	"github.com/authgate/authgate/users"
	"github.com/pkg/errors"
)

// Repos holds the store gateways the Service depends on.
type Repos struct {
	Users    users.Repo
	Sessions sessions.Repo
}

// Service orchestrates credential verification, token issuance, and session
// bookkeeping. Safe for concurrent use: every method is stateless apart from
// the store round-trips.
type Service struct {
	repos      Repos
	issuer     *token.Issuer
	sessionTTL time.Duration
	nowTime    func() time.Time // injectable for testing
}

type ServiceOption func(*Service)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a Service with required dependencies. sessionTTL is
// the lifetime of the server-side session row, configured independently of
// the token's embedded expiry.
func NewService(repos Repos, issuer *token.Issuer, sessionTTL time.Duration, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("[NewService] session TTL must be positive")
	}

	service := &Service{
		repos:      repos,
		issuer:     issuer,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// Signup registers a new user. A concurrent signup with the same email can
// slip past the existence check; the store's unique email constraint is the
// backstop.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	_, err := s.repos.Users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, users.ErrNotFound) {
		return errors.Wrap(err, "[Service.Signup] GetByEmail")
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[Service.Signup] HashPassword")
	}

	created, err := s.repos.Users.Create(ctx, &users.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return errors.Wrap(err, "[Service.Signup] Create")
	}
	if created == nil || created.ID == "" {
		return ErrStoreWrite
	}
	return nil
}

// Login verifies credentials, issues a token, and opens a fresh session row.
// Unknown emails and wrong passwords return the identical error so callers
// cannot enumerate accounts. Two concurrent logins for one account produce
// two independent sessions.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(user.Email)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Login] Issue")
	}

	if err := s.repos.Sessions.Create(ctx, sessions.Session{
		UserID:    user.ID,
		Token:     accessToken,
		ExpiresAt: s.nowTime().Add(s.sessionTTL),
	}); err != nil {
		return "", errors.Wrap(err, "[Service.Login] Sessions.Create")
	}

	return accessToken, nil
}

// Authenticate validates a bearer token against both leases: the token's own
// signature and embedded expiry, and a live session row in the store. A
// string that was never signed here cannot authenticate, no matter what rows
// exist.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*sessions.Session, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrNotAuthenticated
	}

	if _, err := s.issuer.Decode(accessToken); err != nil {
		return nil, errors.Wrap(ErrSessionExpired, err.Error())
	}

	session, err := s.repos.Sessions.GetActiveByToken(ctx, accessToken, s.nowTime())
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Authenticate] GetActiveByToken")
	}
	return session, nil
}

// Logout revokes the session for the token. Deleting a token that has no
// session is not an error, so repeated logouts succeed identically.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	if err := s.repos.Sessions.DeleteByToken(ctx, accessToken); err != nil {
		return errors.Wrap(err, "[Service.Logout] DeleteByToken")
	}
	return nil
}
