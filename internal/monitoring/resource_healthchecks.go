package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15

// ResourceChecker reports whether the local language resources are still usable.
type ResourceChecker func() bool

// MonitorResourceHealth re-checks the resources on every tick and stores the outcome
// in healthy, which backs the readiness check.
func MonitorResourceHealth(ctx context.Context, healthy *atomic.Bool, check ResourceChecker) {
	MonitorResourceHealthEvery(ctx, time.Second*HEALTHCHECK_TIMER, healthy, check)
}

func MonitorResourceHealthEvery(ctx context.Context, interval time.Duration, healthy *atomic.Bool, check ResourceChecker) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := check()
			if healthy.Swap(isHealthy) != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Language resources are healthy again")
				} else {
					slog.Warn("[HealthCheck] Language resources are missing")
				}
			}
		}
	}
}
