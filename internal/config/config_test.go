package config_test

import (
	"testing"
	"time"

	"github.com/authgate/authgate/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.New()

	require.Equal(t, ":8080", cfg.Port)
	require.Equal(t, "DEV", cfg.Env)
	require.Equal(t, config.StoreBackendSupabase, cfg.StoreBackend)
	require.Equal(t, 60*time.Minute, cfg.TokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"http://localhost:4200"}, cfg.AllowedOrigins)
	require.Equal(t, config.LogoutTokenFromCookie, cfg.LogoutTokenSource)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("ENV", "PROD")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("AUTH_LOGOUT_TOKEN_SOURCE", "body")

	cfg := config.New()

	require.Equal(t, ":9090", cfg.Port)
	require.Equal(t, "PROD", cfg.Env)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 48*time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	require.Equal(t, config.LogoutTokenFromBody, cfg.LogoutTokenSource)
}

func TestPortIsPrefixed(t *testing.T) {
	t.Setenv("PORT", "3000")
	require.Equal(t, ":3000", config.New().Port)
}

func TestInvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	require.Equal(t, 60*time.Minute, config.New().TokenTTL)
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		StoreBackend:      config.StoreBackendSupabase,
		StoreURL:          "https://project.supabase.co",
		StoreAPIKey:       "anon",
		JWTSecret:         "secret",
		TokenTTL:          time.Hour,
		SessionTTL:        time.Hour,
		LogoutTokenSource: config.LogoutTokenFromCookie,
	}
	require.NoError(t, valid.Validate())

	missingSecret := valid
	missingSecret.JWTSecret = ""
	require.Error(t, missingSecret.Validate())

	missingStoreKey := valid
	missingStoreKey.StoreAPIKey = ""
	require.Error(t, missingStoreKey.Validate())

	postgresBackend := valid
	postgresBackend.StoreBackend = config.StoreBackendPostgres
	require.Error(t, postgresBackend.Validate())
	postgresBackend.PostgresDSN = "postgres://localhost/authgate"
	require.NoError(t, postgresBackend.Validate())

	badBackend := valid
	badBackend.StoreBackend = "dynamo"
	require.Error(t, badBackend.Validate())

	badLogoutSource := valid
	badLogoutSource.LogoutTokenSource = "header"
	require.Error(t, badLogoutSource.Validate())
}
