package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/authgate/authgate/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/pkg/errors"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenRequest carries an explicit token for check and (optionally) logout.
type TokenRequest struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type CheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

type SessionInfoResponse struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := validateSignup(req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		err := s.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
		switch {
		case err == nil:
			s.writeJSON(w, http.StatusCreated, MessageResponse{Message: "Successfull"})
		case errors.Is(err, auth.ErrEmailAlreadyRegistered):
			s.writeError(w, http.StatusBadRequest, "User with this email already exists.")
		case errors.Is(err, auth.ErrStoreUnavailable):
			s.logger.Error().Err(err).Msg("signup: store unavailable")
			s.writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		default:
			s.logger.Error().Err(err).Msg("signup failed")
			s.writeError(w, http.StatusInternalServerError, "Error creating user.")
		}
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		accessToken, err := s.auth.Login(r.Context(), req.Email, req.Password)
		switch {
		case err == nil:
			s.setAccessTokenCookie(w, accessToken, time.Now().Add(s.config.SessionTTL))
			s.writeJSON(w, http.StatusOK, TokenResponse{Message: "Successfull", Token: accessToken})
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		case errors.Is(err, auth.ErrStoreUnavailable):
			s.logger.Error().Err(err).Msg("login: store unavailable")
			s.writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		default:
			s.logger.Error().Err(err).Msg("login failed")
			s.writeError(w, http.StatusInternalServerError, "Error logging in.")
		}
	}
}

// CheckHandler validates a token taken from the request body, falling back to
// the access_token cookie when the body carries none.
func (s *Server) CheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		_ = decodeJSON(r, &req) // the body is optional when the cookie is present
		accessToken := req.Token
		if accessToken == "" {
			accessToken = tokenFromCookie(r)
		}

		if _, err := s.auth.Authenticate(r.Context(), accessToken); err != nil {
			s.writeAuthenticateError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, CheckResponse{Authenticated: true})
	}
}

// LogoutHandler revokes the caller's session. It always answers 200 with the
// standard message, whether or not a session existed.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := tokenFromCookie(r)
		if s.config.LogoutTokenSource == config.LogoutTokenFromBody {
			var req TokenRequest
			if err := decodeJSON(r, &req); err == nil && req.Token != "" {
				accessToken = req.Token
			}
		}

		if err := s.auth.Logout(r.Context(), accessToken); err != nil {
			// Best effort: the cookie is cleared either way and the session
			// row will lapse at its expiry.
			s.logger.Error().Err(err).Msg("logout: session delete failed")
		}
		s.clearAccessTokenCookie(w)
		s.writeJSON(w, http.StatusOK, MessageResponse{Message: "Successfull"})
	}
}

// SessionInfoHandler reports the authenticated caller's session. Registered
// behind RequireSession.
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.writeJSON(w, http.StatusOK, SessionInfoResponse{
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

func validateSignup(req SignupRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(email, "@") {
		return errors.New("invalid email format")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
