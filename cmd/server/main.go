package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"feedkeeper/internal/app/server/api"
	"feedkeeper/internal/app/server/config"
	"feedkeeper/internal/app/server/metrics"
	"feedkeeper/internal/domain/session"
	"feedkeeper/internal/infrastructure/storage/postgres"
	"feedkeeper/internal/utils/logger"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	cfg := config.MustLoad()
	log, err := logger.NewWithLevel(cfg.Env, cfg.Logger.LogLevel, os.Stdout)
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		metrics.SetDatabaseUp(false)
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Warn("failed to close storage", "error", err)
		}
	}()
	metrics.SetDatabaseUp(true)

	sessions := session.NewService(postgres.NewSessionRepository(storage, log), cfg.Session.TTL, log)
	sessions.OnExpired(metrics.RecordExpiredSessions)
	go sessions.Cleanup(ctx, sessionCleanupInterval)

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(storage, sessions, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "address", cfg.Server.RunAddress, "env", cfg.Env)
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

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
