package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/middleware"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/server"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui"
)

const datasetLoadTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	reporting := services.NewReporting(observability.Component(logger, "reporting"))

	format := dataset.Format(cfg.Dataset.Format)
	if cfg.Dataset.Format == "auto" {
		format = dataset.DetectFormat(cfg.Dataset.File)
	}

	ctx, cancel := context.WithTimeout(context.Background(), datasetLoadTimeout)
	defer cancel()

	if err := reporting.LoadFromFile(ctx, cfg.Dataset.File, format); err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: ui.Handler(reporting, observability.Component(logger, "ui")),
	}

	srv := server.NewServer(reporting, logger, templateHandlers, cfg.Export.Filename)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down reporting service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
