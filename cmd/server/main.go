package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/settlements/internal/config"
	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/JonMunkholm/settlements/internal/logging"
	"github.com/JonMunkholm/settlements/internal/metrics"
	"github.com/JonMunkholm/settlements/internal/source"
	"github.com/JonMunkholm/settlements/internal/web"
)

func main() {
	// Load .env file if it exists; variables already in the environment win
	if err := config.LoadDotEnv(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_source", cfg.Data.Source,
		"fallback", cfg.Data.Fallback,
		"page_size", cfg.Query.PageSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()

	loader, closeSource, err := source.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open data source", "source", cfg.Data.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	m := metrics.New()
	catalog := core.NewCatalog(loader,
		core.WithPageSize(cfg.Query.PageSize),
		core.WithObserver(m),
	)

	// The first load must succeed; with fallback enabled only a broken
	// build can fail here.
	if _, err := catalog.Reload(ctx); err != nil {
		slog.Error("failed to load dataset", "error", err, "hint", core.FormatUserError(err))
		os.Exit(1)
	}

	server := web.NewServer(catalog, cfg, m)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go catalog.StartRefreshScheduler(jobCtx, cfg.Data.RefreshInterval)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
