package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"superstore-dashboard/internal/config"
)

const hookTimeout = 10 * time.Second

// GracefulServer wraps an http.Server with signal handling and ordered
// shutdown hooks.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, cfg *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: cfg,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn func(ctx context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, fn)
}

func (gs *GracefulServer) ListenAndServe() error {
	serverErrors := make(chan error, 1)

	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.config.Server.ReadTimeout,
			"write_timeout", gs.config.Server.WriteTimeout,
		)
		serverErrors <- gs.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case sig := <-shutdown:
		gs.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
		defer cancel()

		return gs.shutdown(ctx)
	}
}

// shutdown stops the HTTP server first so no new requests arrive, then
// runs the registered hooks in order. The first error wins but every
// hook still runs.
func (gs *GracefulServer) shutdown(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.config.Server.ShutdownTimeout)

	var firstErr error

	if err := gs.server.Shutdown(ctx); err != nil {
		gs.logger.Error("HTTP server shutdown failed", "error", err)
		firstErr = fmt.Errorf("HTTP server shutdown failed: %w", err)
	} else {
		gs.logger.Info("HTTP server stopped gracefully")
	}

	gs.mu.Lock()
	hooks := make([]func(ctx context.Context) error, len(gs.hooks))
	copy(hooks, gs.hooks)
	gs.mu.Unlock()

	for i, hook := range hooks {
		if ctx.Err() != nil {
			gs.logger.Warn("shutdown timeout exceeded, skipping remaining hooks", "remaining", len(hooks)-i)
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			break
		}

		hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
		err := hook(hookCtx)
		cancel()

		if err != nil {
			gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown hook %d failed: %w", i, err)
			}
		}
	}

	if firstErr == nil {
		gs.logger.Info("graceful shutdown completed")
	}
	return firstErr
}
