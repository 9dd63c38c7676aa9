package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/authgate/authgate/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/server"
	"github.com/authgate/authgate/store/postgres"
	"github.com/authgate/authgate/store/supabase"
	"github.com/authgate/authgate/token"
	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func main() {
	logger := newLogger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func run(logger zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config.Validate")
	}
	displayAppname(cfg.AppName)

	repos, closeStore, err := buildRepos(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "buildRepos")
	}
	defer closeStore()

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService, err := auth.NewService(repos, issuer, cfg.SessionTTL)
	if err != nil {
		return errors.Wrap(err, "auth.NewService")
	}

	handler, err := server.New(cfg, authService, logger)
	if err != nil {
		return errors.Wrap(err, "server.New")
	}

	httpServer := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildRepos picks the store backend from configuration. The returned close
// function is a no-op for backends without a pooled connection.
func buildRepos(cfg config.Config, logger zerolog.Logger) (auth.Repos, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendSupabase:
		client := supabase.NewClient(cfg.StoreURL, cfg.StoreAPIKey, supabase.WithTimeout(cfg.StoreTimeout))
		return auth.Repos{
			Users:    supabase.NewUserRepo(client),
			Sessions: supabase.NewSessionRepo(client),
		}, func() {}, nil

	case config.StoreBackendPostgres:
		store, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return auth.Repos{}, nil, errors.Wrap(err, "postgres.Open")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.RunMigrations(ctx); err != nil {
			store.Close()
			return auth.Repos{}, nil, errors.Wrap(err, "RunMigrations")
		}
		return auth.Repos{
			Users:    store.Users(),
			Sessions: store.Sessions(),
		}, func() { store.Close() }, nil

	default:
		return auth.Repos{}, nil, errors.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "httpServer.Shutdown")
	}
	return nil
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if config.GetEnv("ENV", "DEV") == "DEV" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout}).Level(zerolog.DebugLevel)
	}
	return logger
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
