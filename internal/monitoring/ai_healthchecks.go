package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type ClassifierProbe interface {
	ClassifierHealthCheck(ctx context.Context) bool
}

type SummarizerProbe interface {
	SummarizerHealthCheck(ctx context.Context) bool
}

// AdapterHealth holds the last probe outcome per adapter. Flags start
// healthy so a process is not marked down before the first probe.
type AdapterHealth struct {
	Classifier atomic.Bool
	Summarizer atomic.Bool
}

func NewAdapterHealth() *AdapterHealth {
	h := &AdapterHealth{}
	h.Classifier.Store(true)
	h.Summarizer.Store(true)
	return h
}

func MonitorClassifierHealth(ctx context.Context, probe ClassifierProbe, healthy *atomic.Bool, interval time.Duration) {
	monitor(ctx, "Classifier", probe.ClassifierHealthCheck, healthy, interval)
}

func MonitorSummarizerHealth(ctx context.Context, probe SummarizerProbe, healthy *atomic.Bool, interval time.Duration) {
	monitor(ctx, "Summarizer", probe.SummarizerHealthCheck, healthy, interval)
}

func monitor(ctx context.Context, name string, check func(context.Context) bool, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			isHealthy := check(probeCtx)
			cancel()

			if was := healthy.Swap(isHealthy); was != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Adapter recovered", slog.String("adapter", name))
				} else {
					slog.Warn("[HealthCheck] Adapter is unhealthy", slog.String("adapter", name))
				}
			}
		}
	}
}
