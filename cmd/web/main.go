package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/config"
	"github.com/AdamBeresnev/bracket-picks/internal/db"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/middleware"
	"github.com/AdamBeresnev/bracket-picks/internal/scheduler"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		return err
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString() + uuid.NewString()
		logger.Warn("SESSION_SECRET is not set, sign-in state will not survive a restart")
	}
	providers := middleware.InitAuth(cfg)
	if len(providers) == 0 {
		logger.Warn("No OAuth provider configured, nobody can sign in")
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Secure = strings.HasPrefix(cfg.BaseURL, "https://")
	if cfg.DBDriver == config.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	} else {
		sessionManager.Store = memstore.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := live.New(logger, cfg.CORSOrigins)
	go hub.Run(ctx)

	m := metrics.New()
	app := newApplication(cfg, database, sessionManager, hub, m)
	app.providers = providers

	watcher := scheduler.NewLockWatcher(store.NewTournamentStore(database), hub, m, logger)
	if _, err := watcher.Start(ctx, cfg.LockCheckInterval); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", cfg.Addr(), "driver", cfg.DBDriver, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
