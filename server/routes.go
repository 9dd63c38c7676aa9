package server

import "net/http"

const (
	RouteSignup  = "/v1/auth/signup"
	RouteLogin   = "/v1/auth/login"
	RouteCheck   = "/v1/auth/check"
	RouteLogout  = "/v1/auth/logout"
	RouteSession = "/v1/auth/session"
	RouteHealthz = "/healthz"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCheck, ChainMiddleware(s.CheckHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Cookie-authenticated introspection of the caller's own session.
	s.RegisterRouteHandler("GET "+RouteSession,
		ChainMiddleware(s.SessionInfoHandler(), append(s.APIMiddleware(), s.RequireSession())...))

	s.RegisterRouteHandler("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.APIMiddleware()...))

	// CORS preflight for the auth subtree; the mux method patterns above
	// never match OPTIONS requests.
	s.RegisterRouteHandler("OPTIONS /v1/auth/", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}

// HealthzHandler is a liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// PreflightHandler terminates OPTIONS requests after the CORS middleware has
// attached its headers.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
