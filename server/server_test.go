package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/authgate/authgate/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/server"
	"github.com/authgate/authgate/sessions"
	"github.com/authgate/authgate/sessions/repofakes"
	"github.com/authgate/authgate/token"
	"github.com/authgate/authgate/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "server-test-secret"
	testEmail    = "ada@example.com"
	testName     = "Ada"
	testPassword = "correct horse battery staple"
)

type testFixture struct {
	t           *testing.T
	srv         *server.Server
	sessionRepo *repofakes.FakeSessionRepo
}

func newTestFixture(t *testing.T, mutate ...func(*config.Config)) *testFixture {
	t.Helper()

	cfg := config.Config{
		AppName:           "authgate",
		Env:               "DEV",
		JWTSecret:         testSecret,
		TokenTTL:          time.Hour,
		SessionTTL:        7 * 24 * time.Hour,
		AllowedOrigins:    []string{"http://localhost:4200"},
		LogoutTokenSource: config.LogoutTokenFromCookie,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	sessionRepo := repofakes.NewFakeSessionRepo()
	service, err := auth.NewService(auth.Repos{
		Users:    repofake.NewFakeUserRepo(),
		Sessions: sessionRepo,
	}, issuer, cfg.SessionTTL)
	require.NoError(t, err)

	srv, err := server.New(cfg, service, zerolog.Nop())
	require.NoError(t, err)

	return &testFixture{t: t, srv: srv, sessionRepo: sessionRepo}
}

func (f *testFixture) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) decode(rec *httptest.ResponseRecorder, out interface{}) {
	f.t.Helper()
	require.NoError(f.t, json.NewDecoder(rec.Body).Decode(out))
}

func (f *testFixture) signup(email, password string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, server.RouteSignup, server.SignupRequest{
		Name:     testName,
		Email:    email,
		Password: password,
	})
}

func (f *testFixture) login(email, password string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, server.RouteLogin, server.LoginRequest{
		Email:    email,
		Password: password,
	})
}

func accessTokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == server.AccessTokenCookie {
			return cookie
		}
	}
	t.Fatal("access_token cookie not set")
	return nil
}

func TestSignupLoginCheckLogoutFlow(t *testing.T) {
	f := newTestFixture(t)

	rec := f.signup(testEmail, testPassword)
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg server.MessageResponse
	f.decode(rec, &msg)
	require.Equal(t, "Successfull", msg.Message)

	rec = f.login(testEmail, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)
	var loginResp server.TokenResponse
	f.decode(rec, &loginResp)
	require.Equal(t, "Successfull", loginResp.Message)
	require.NotEmpty(t, loginResp.Token)

	cookie := accessTokenCookie(t, rec)
	require.Equal(t, "Bearer "+loginResp.Token, cookie.Value)
	require.True(t, cookie.HttpOnly)

	rec = f.do(http.MethodPost, server.RouteCheck, server.TokenRequest{Token: loginResp.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	var check server.CheckResponse
	f.decode(rec, &check)
	require.True(t, check.Authenticated)

	rec = f.do(http.MethodPost, server.RouteLogout, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, server.RouteCheck, server.TokenRequest{Token: loginResp.Token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newTestFixture(t)

	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)

	rec := f.signup(testEmail, "another password")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Detail string `json:"detail"`
	}
	f.decode(rec, &resp)
	require.Equal(t, "User with this email already exists.", resp.Detail)
}

func TestSignupRejectsInvalidPayload(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(http.MethodPost, server.RouteSignup, server.SignupRequest{Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusBadRequest, rec.Code) // missing name

	rec = f.do(http.MethodPost, server.RouteSignup, server.SignupRequest{Name: testName, Email: "not-an-email", Password: testPassword})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, server.RouteSignup, server.SignupRequest{Name: testName, Email: testEmail})
	require.Equal(t, http.StatusBadRequest, rec.Code) // missing password

	req := httptest.NewRequest(http.MethodPost, server.RouteSignup, bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	f.srv.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)

	unknown := f.login("nobody@example.com", testPassword)
	wrongPassword := f.login(testEmail, "wrong password")

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, unknown.Body.String(), wrongPassword.Body.String())
}

func TestCheckWithoutTokenIsUnauthorized(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(http.MethodPost, server.RouteCheck, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp struct {
		Detail string `json:"detail"`
	}
	f.decode(rec, &resp)
	require.Equal(t, "Not authenticated", resp.Detail)
}

func TestCheckFallsBackToCookie(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)
	cookie := accessTokenCookie(t, f.login(testEmail, testPassword))

	rec := f.do(http.MethodPost, server.RouteCheck, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var check server.CheckResponse
	f.decode(rec, &check)
	require.True(t, check.Authenticated)
}

func TestForgedTokenIsRejectedDespiteSessionRow(t *testing.T) {
	f := newTestFixture(t)

	forged, err := token.NewIssuer("some other secret", time.Hour).Issue(testEmail)
	require.NoError(t, err)
	require.NoError(t, f.sessionRepo.Create(context.Background(), sessions.Session{
		UserID:    "user-1",
		Token:     forged,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	rec := f.do(http.MethodPost, server.RouteCheck, server.TokenRequest{Token: forged})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)
	cookie := accessTokenCookie(t, f.login(testEmail, testPassword))

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, server.RouteLogout, nil, cookie).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, server.RouteLogout, nil, cookie).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, server.RouteLogout, nil).Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)
	cookie := accessTokenCookie(t, f.login(testEmail, testPassword))

	rec := f.do(http.MethodPost, server.RouteLogout, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := accessTokenCookie(t, rec)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestLogoutTokenFromBody(t *testing.T) {
	f := newTestFixture(t, func(cfg *config.Config) {
		cfg.LogoutTokenSource = config.LogoutTokenFromBody
	})
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)

	rec := f.login(testEmail, testPassword)
	var loginResp server.TokenResponse
	f.decode(rec, &loginResp)

	rec = f.do(http.MethodPost, server.RouteLogout, server.TokenRequest{Token: loginResp.Token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, server.RouteCheck, server.TokenRequest{Token: loginResp.Token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionInfoRequiresCookie(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)
	cookie := accessTokenCookie(t, f.login(testEmail, testPassword))

	require.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, server.RouteSession, nil).Code)

	rec := f.do(http.MethodGet, server.RouteSession, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var info server.SessionInfoResponse
	f.decode(rec, &info)
	require.NotEmpty(t, info.UserID)
	require.True(t, info.ExpiresAt.After(time.Now()))
}

func TestCORSPreflight(t *testing.T) {
	f := newTestFixture(t)

	req := httptest.NewRequest(http.MethodOptions, server.RouteLogin, nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, server.RouteLogin, nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHeadersOnSimpleRequest(t *testing.T) {
	f := newTestFixture(t)
	require.Equal(t, http.StatusCreated, f.signup(testEmail, testPassword).Code)

	req := httptest.NewRequest(http.MethodPost, server.RouteLogin, bytes.NewBufferString(`{"email":"ada@example.com","password":"correct horse battery staple"}`))
	req.Header.Set("Origin", "http://localhost:4200")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(http.MethodGet, server.RouteHealthz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	f.decode(rec, &resp)
	require.Equal(t, "ok", resp["status"])
}
