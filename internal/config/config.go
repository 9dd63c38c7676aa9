// Package config loads process configuration from the environment once at
// startup. The resulting struct is immutable; nothing mutates it after New.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Token transports the logout endpoint may read from.
const (
	LogoutTokenFromCookie = "cookie"
	LogoutTokenFromBody   = "body" // dev-only affordance
)

// Store backends.
const (
	StoreBackendSupabase = "supabase"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	AppName string
	Env     string // "DEV" or "PROD"
	Port    string // listen address, ":8080" form

	StoreBackend string
	StoreURL     string // Supabase project URL
	StoreAPIKey  string
	PostgresDSN  string
	StoreTimeout time.Duration

	JWTSecret  string
	TokenTTL   time.Duration // embedded token expiry
	SessionTTL time.Duration // server-side session row expiry

	AllowedOrigins    []string
	LogoutTokenSource string
}

func New() Config {
	return Config{
		AppName: GetEnv("APP_NAME", "authgate"),
		Env:     GetEnv("ENV", "DEV"),
		Port:    normalizePort(GetEnv("PORT", "8080")),

		StoreBackend: GetEnv("STORE_BACKEND", StoreBackendSupabase),
		StoreURL:     GetEnv("SUPABASE_URL", ""),
		StoreAPIKey:  GetEnv("SUPABASE_ANON_KEY", ""),
		PostgresDSN:  GetEnv("POSTGRES_DSN", ""),
		StoreTimeout: getDurationEnv("STORE_TIMEOUT", 5*time.Second),

		JWTSecret:  GetEnv("JWT_SECRET", ""),
		TokenTTL:   getDurationEnv("TOKEN_TTL", 60*time.Minute),
		SessionTTL: getDurationEnv("SESSION_TTL", 7*24*time.Hour),

		AllowedOrigins:    getListEnv("ALLOWED_ORIGINS", []string{"http://localhost:4200"}),
		LogoutTokenSource: GetEnv("AUTH_LOGOUT_TOKEN_SOURCE", LogoutTokenFromCookie),
	}
}

// Validate rejects configurations the process cannot safely start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreBackend {
	case StoreBackendSupabase:
		if c.StoreURL == "" || c.StoreAPIKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase backend")
		}
	case StoreBackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return errors.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.LogoutTokenSource != LogoutTokenFromCookie && c.LogoutTokenSource != LogoutTokenFromBody {
		return errors.Errorf("unknown AUTH_LOGOUT_TOKEN_SOURCE %q", c.LogoutTokenSource)
	}
	if c.TokenTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("TOKEN_TTL and SESSION_TTL must be positive")
	}
	return nil
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getListEnv(envVar string, defaultValue []string) []string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

func normalizePort(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
