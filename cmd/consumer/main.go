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
	"github.com/spacesedan/commentlens/internal/clients/kafka_client"
	"github.com/spacesedan/commentlens/internal/consumers"
	"github.com/spacesedan/commentlens/internal/logging"
	"github.com/spacesedan/commentlens/internal/monitoring"
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

	var producer *kafka_client.Producer
	for producer == nil {
		producer, err = kafka_client.NewProducer(cfg.Kafka)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	batchConsumer := consumers.NewCommentBatchConsumer(components.Cache, producer, consumers.CommentBatchConsumerConfig{
		ResultsTopic:     cfg.Kafka.ResultsTopic,
		MaxCommentLength: cfg.Analysis.MaxCommentLength,
	})
	wrapped := consumers.WrapConsumer(batchConsumer.Start)

	// only the classifier gates reads; summarizer outages degrade to the fallback text
	if cfg.Backends.Classifier == config.ClassifierHuggingFace {
		health := monitoring.NewAdapterHealth()
		go monitoring.MonitorClassifierHealth(ctx, components.HuggingFace, &health.Classifier, monitoring.HEALTHCHECK_TIMER)
		wrapped = wrapped.WithHealthCheck(&health.Classifier)
	}

	kafka_client.RegisterConsumer(cfg.Kafka.BatchesTopic, wrapped.Handler())

	if err := kafka_client.StartConsumer(ctx, cfg.Kafka); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
