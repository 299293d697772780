package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/bootstrap"
	"github.com/spacesedan/commentlens/internal/logging"
	"github.com/spacesedan/commentlens/internal/monitoring"
	"github.com/spacesedan/commentlens/internal/server"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build analysis stack", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer components.Close()

	var health *monitoring.AdapterHealth
	if hf := components.HuggingFace; hf != nil {
		health = monitoring.NewAdapterHealth()
		if cfg.Backends.Classifier == config.ClassifierHuggingFace {
			go monitoring.MonitorClassifierHealth(ctx, hf, &health.Classifier, monitoring.HEALTHCHECK_TIMER)
		}
		if cfg.Backends.Summarizer == config.SummarizerHuggingFace {
			go monitoring.MonitorSummarizerHealth(ctx, hf, &health.Summarizer, monitoring.HEALTHCHECK_TIMER)
		}
	}

	handler := server.NewHandler(components.Cache, cfg.Analysis.MaxCommentLength, health)
	srv := server.New(cfg.Server.Addr, server.NewMux(handler, cfg.Server.AllowedOrigins))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}

	stats := components.Cache.Stats()
	slog.Info("[Main] Stopped",
		slog.Uint64("cache_hits", stats.Hits),
		slog.Uint64("cache_shared_hits", stats.SharedHits),
		slog.Uint64("cache_misses", stats.Misses))
}
