package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15

// Prober is anything that can report whether the analyzer is reachable.
type Prober interface {
	Health(ctx context.Context) error
}

// MonitorAnalyzerHealth probes the analyzer every HEALTHCHECK_TIMER seconds
// until ctx is done.
func MonitorAnalyzerHealth(ctx context.Context, prober Prober, healthy *atomic.Bool) {
	monitorAnalyzerHealth(ctx, prober, healthy, time.Second*HEALTHCHECK_TIMER)
}

func monitorAnalyzerHealth(ctx context.Context, prober Prober, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		err := prober.Health(ctx)
		wasHealthy := healthy.Swap(err == nil)
		switch {
		case err != nil && wasHealthy:
			slog.Warn("[HealthCheck] Analyzer is unhealthy", slog.String("error", err.Error()))
		case err == nil && !wasHealthy:
			slog.Info("[HealthCheck] Analyzer is healthy again")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
