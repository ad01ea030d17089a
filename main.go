package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"secure-notes/config"
	"secure-notes/db"
	"secure-notes/handlers"
	"secure-notes/logging"
	"secure-notes/seed"
	"secure-notes/session"
	"secure-notes/store"
)

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		l := logging.New(os.Stderr, "info")
		l.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pool, dialect, err := db.Open(ctx, cfg.DBDriver, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, dialect, logger); err != nil {
		return err
	}

	if cfg.Debug && cfg.SeedFile != "" {
		users, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		st := store.New(pool, dialect, store.WithHashCost(cfg.BcryptCost))
		if err := seed.Run(logger.WithContext(ctx), st, users); err != nil {
			return err
		}
	}

	secret, generated, err := cfg.SessionSecret()
	if err != nil {
		return err
	}
	if generated {
		logger.Warn().Msg("JWT_SECRET not set, using a random secret; sessions end on restart")
	}
	sessions := session.NewManager(secret, cfg.SessionTTL, cfg.CookieSecure)

	h, err := handlers.New(dialect, sessions, cfg.BcryptCost)
	if err != nil {
		return err
	}

	router := newRouter(logger, pool, h, sessions, routerOptions{
		CORSOrigin:  cfg.CORSOrigin,
		HourlyLimit: cfg.HourlyLimit,
		DailyLimit:  cfg.DailyLimit,
		TrustProxy:  cfg.TrustProxy,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("driver", dialect.Name).Msg("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
