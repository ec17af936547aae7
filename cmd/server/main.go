package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sagsagg/translation-tools/internal/config"
	"github.com/sagsagg/translation-tools/internal/language"
	"github.com/sagsagg/translation-tools/internal/logging"
	"github.com/sagsagg/translation-tools/internal/session"
	"github.com/sagsagg/translation-tools/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_file_size", cfg.Upload.MaxFileSize,
		"search_threshold", cfg.Search.Threshold,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Build the language catalog from configuration
	catalog, err := language.FromSpec(cfg.Languages.Spec)
	if err != nil {
		slog.Error("failed to build language catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("language catalog ready",
		"languages", catalog.Len(),
		"default", catalog.Default().Code,
	)

	// Sessions live in memory only; a restart starts clean
	sessions := session.NewStore(cfg.Session.MaxSessions, cfg.Session.MaxUploadHistory)

	server := web.NewServer(cfg, catalog, sessions)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
