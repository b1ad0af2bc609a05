package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/northbeam-labs/scribe/internal/analysis"
	"github.com/northbeam-labs/scribe/internal/api"
	"github.com/northbeam-labs/scribe/internal/broadcast"
	"github.com/northbeam-labs/scribe/internal/config"
	"github.com/northbeam-labs/scribe/internal/extraction"
	"github.com/northbeam-labs/scribe/internal/insight"
	"github.com/northbeam-labs/scribe/internal/resolver"
	"github.com/northbeam-labs/scribe/internal/review"
	"github.com/northbeam-labs/scribe/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("scribe starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// NATS
	nc, err := broadcast.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	sessions := broadcast.NewSessionPublisher(nc)
	graph := broadcast.NewGraphPublisher(nc)

	// Analysis pipeline
	analyzer := analysis.New(extraction.New(), insight.NewAnalyzer(), nil)

	// Profile resolution + review lifecycle
	res := resolver.New(db, slog.Default())
	reviewer := review.NewService(db, res, sessions, graph, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, analyzer, reviewer, db, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := nc.Publish("scribe.service.registered", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("scribe ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("scribe stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
