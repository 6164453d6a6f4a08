package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobradar/endpoint-resolver/internal/breaker"
	"github.com/jobradar/endpoint-resolver/internal/resolver"
)

// Monitor periodically re-probes the resolved endpoint. After enough
// consecutive failures it invalidates the resolver cache and triggers a
// fresh resolution, so the process migrates to another candidate without
// callers having to notice.
type Monitor struct {
	resolver *resolver.Resolver
	breaker  *breaker.Breaker
	interval time.Duration
	logger   *slog.Logger
}

func New(res *resolver.Resolver, brk *breaker.Breaker, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		resolver: res,
		breaker:  brk,
		interval: interval,
		logger:   logger,
	}
}

// Run watches the resolved endpoint until ctx is cancelled. In override
// mode it returns immediately: an explicitly configured backend is never
// probed.
func (m *Monitor) Run(ctx context.Context) {
	if m.resolver.OverrideMode() {
		m.logger.Info("Endpoint monitor disabled, override configured")
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Endpoint monitor stopped")
			return

		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	if !m.breaker.Allow() {
		return
	}

	addr := m.resolver.Resolve(ctx)

	if m.resolver.HealthCheck(ctx, addr) {
		if m.breaker.State() != breaker.StateClosed || m.breaker.Failures() > 0 {
			m.logger.Info("Resolved endpoint is back up",
				slog.String("address", addr))
		}
		m.breaker.RecordSuccess()
		return
	}

	if !m.breaker.RecordFailure() {
		m.logger.Warn("Resolved endpoint failed probe",
			slog.String("address", addr),
			slog.Int("consecutive_failures", m.breaker.Failures()))
		return
	}

	m.logger.Warn("Resolved endpoint considered down, re-resolving",
		slog.String("address", addr))

	m.resolver.Invalidate()
	next := m.resolver.Resolve(ctx)

	if next != addr {
		m.logger.Info("Backend endpoint changed",
			slog.String("previous", addr),
			slog.String("current", next))
	}

	// The breaker only closes once the fresh endpoint answers a probe;
	// a re-resolution that settled on a dead fallback stays open and is
	// retried on the breaker's cooldown.
	if m.resolver.HealthCheck(ctx, next) {
		m.breaker.RecordSuccess()
		return
	}

	m.logger.Warn("Re-resolved endpoint failed probe",
		slog.String("address", next))
}
