package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubProbe struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (s *stubProbe) ClassifierHealthCheck(context.Context) bool {
	s.calls.Add(1)
	return s.healthy.Load()
}

func (s *stubProbe) SummarizerHealthCheck(context.Context) bool {
	s.calls.Add(1)
	return s.healthy.Load()
}

func TestNewAdapterHealth_StartsHealthy(t *testing.T) {
	h := NewAdapterHealth()

	assert.True(t, h.Classifier.Load())
	assert.True(t, h.Summarizer.Load())
}

func TestMonitorClassifierHealth_TracksProbe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	probe := &stubProbe{}
	h := NewAdapterHealth()

	go MonitorClassifierHealth(ctx, probe, &h.Classifier, time.Millisecond)

	assert.Eventually(t, func() bool { return !h.Classifier.Load() }, time.Second, time.Millisecond)

	probe.healthy.Store(true)
	assert.Eventually(t, func() bool { return h.Classifier.Load() }, time.Second, time.Millisecond)
	assert.True(t, h.Summarizer.Load())
}

func TestMonitorSummarizerHealth_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	probe := &stubProbe{}
	done := make(chan struct{})

	go func() {
		MonitorSummarizerHealth(ctx, probe, &atomic.Bool{}, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
