package server

import (
	"context"
	"net/http"

	"github.com/authgate/authgate/auth"
	"github.com/authgate/authgate/sessions"
	"github.com/pkg/errors"
)

type contextKey string

const sessionContextKey contextKey = "session"

// RequireSession guards a route behind a valid access_token cookie and puts
// the authenticated session on the request context.
func (s *Server) RequireSession() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromCookie(r)
			session, err := s.auth.Authenticate(r.Context(), token)
			if err != nil {
				s.writeAuthenticateError(w, err)
				return
			}
			next(w, r.WithContext(ContextWithSession(r.Context(), session)))
		}
	}
}

func (s *Server) writeAuthenticateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		s.writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, auth.ErrStoreUnavailable):
		s.logger.Error().Err(err).Msg("session check: store unavailable")
		s.writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
	case errors.Is(err, auth.ErrSessionExpired):
		s.writeError(w, http.StatusUnauthorized, "Session expired")
	default:
		s.logger.Error().Err(err).Msg("session check failed")
		s.writeError(w, http.StatusUnauthorized, "Session expired")
	}
}

func ContextWithSession(ctx context.Context, session *sessions.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*sessions.Session)
	return session, ok
}
