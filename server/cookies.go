package server

import (
	"net/http"
	"strings"
	"time"
)

const (
	// AccessTokenCookie carries the bearer token between requests. The
	// value keeps the historical "Bearer <token>" form clients depend on.
	AccessTokenCookie = "access_token"
	bearerPrefix      = "Bearer "
)

func (s *Server) setAccessTokenCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    bearerPrefix + token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.env != "DEV",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAccessTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.env != "DEV",
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(cookie.Value, bearerPrefix)
}
