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

	"github.com/charmbracelet/log"

	"github.com/TWRT/todos/internal/api"
	"github.com/TWRT/todos/internal/config"
	"github.com/TWRT/todos/internal/logging"
	"github.com/TWRT/todos/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Error("todos", "err", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg, "todos")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	if dir := cfg.DataDir(); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	db, err := repository.InitDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("init db (%s): %w", cfg.DBDriver, err)
	}
	defer db.Close()

	logger.Info("database ready", "driver", cfg.DBDriver, "env", cfg.Env)

	handler, err := api.SetupRouter(db, logger, api.RouterOptions{CORSOrigin: cfg.CORSOrigin})
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(rootCtx, srv, logger, cfg.ShutdownTimeout)
}

// serve runs srv until ctx is done or the listener fails. A listener failure
// is returned; a cancelled ctx triggers a graceful shutdown.
func serve(ctx context.Context, srv *http.Server, logger *log.Logger, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "health", "/health", "api", "/api/todos")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("bye")
	return nil
}
