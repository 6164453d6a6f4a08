package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jobradar/endpoint-resolver/internal/endpoint"
	"github.com/jobradar/endpoint-resolver/internal/metrics"
	"github.com/jobradar/endpoint-resolver/internal/probe"
)

const flightKey = "resolve"

// Config carries the static resolution inputs, fixed at process start.
type Config struct {
	// OverrideURL, when non-empty, fully disables discovery. It is
	// normalized once and returned as-is for every Resolve call; it is
	// never validated (a malformed override surfaces at the call site
	// that issues the actual request).
	OverrideURL string

	// Candidates are probed sequentially in list order. The first live
	// candidate wins, even if a later one is also live.
	Candidates []string

	// FallbackURL is returned when every candidate probe fails.
	FallbackURL string

	// APIPrefix is appended to a normalized override (default "/v1").
	APIPrefix string
}

// Resolver determines the single backend base address all callers in the
// process should use. It caches the first successful resolution for the
// process lifetime and collapses concurrent resolution attempts into one
// probe sequence.
type Resolver struct {
	mutex        sync.Mutex
	cached       *endpoint.Endpoint
	generation   uint64
	flight       singleflight.Group
	overrideOnce sync.Once

	override   string
	candidates []string
	fallback   string

	prober    probe.Prober
	logger    *slog.Logger
	collector *metrics.Collector
}

// New creates a Resolver. The collector may be nil, in which case no
// events are emitted.
func New(cfg Config, prober probe.Prober, logger *slog.Logger, collector *metrics.Collector) *Resolver {
	override := ""
	if cfg.OverrideURL != "" {
		override = endpoint.Normalize(cfg.OverrideURL, cfg.APIPrefix)
	}

	candidates := make([]string, 0, len(cfg.Candidates))
	for _, c := range cfg.Candidates {
		candidates = append(candidates, endpoint.TrimAddress(c))
	}

	return &Resolver{
		override:   override,
		candidates: candidates,
		fallback:   endpoint.TrimAddress(cfg.FallbackURL),
		prober:     prober,
		logger:     logger,
		collector:  collector,
	}
}

// OverrideMode reports whether an explicit backend address is configured.
// In override mode the resolver never touches the network.
func (r *Resolver) OverrideMode() bool {
	return r.override != ""
}

// Endpoint returns a snapshot of the cached endpoint, if any. Override
// mode has no cached endpoint; Resolve answers from configuration alone.
func (r *Resolver) Endpoint() (endpoint.Endpoint, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.cached == nil {
		return endpoint.Endpoint{}, false
	}
	return *r.cached, true
}

// Resolve returns the backend base address. It never returns an error:
// when no candidate responds it degrades to the fixed fallback address.
// Any number of concurrent callers share a single probe sequence and all
// observe the same settled value.
func (r *Resolver) Resolve(ctx context.Context) string {
	if r.override != "" {
		r.overrideOnce.Do(func() {
			r.emit(metrics.Event{
				Type:      metrics.EventResolved,
				Timestamp: time.Now(),
				Address:   r.override,
				Source:    string(endpoint.SourceOverride),
			})
		})
		return r.override
	}

	if ep, ok := r.Endpoint(); ok {
		return ep.Address
	}

	addr, _, _ := r.flight.Do(flightKey, func() (interface{}, error) {
		// A caller that queued behind a completed flight re-checks the
		// cache before probing again.
		if ep, ok := r.Endpoint(); ok {
			return ep.Address, nil
		}

		r.mutex.Lock()
		generation := r.generation
		r.mutex.Unlock()

		// A resolution, once started, runs to completion for every
		// waiter, regardless of what happens to the initiating
		// caller's context. Each probe stays bounded by the prober's
		// own timeout.
		ep := r.discover(context.WithoutCancel(ctx))

		r.mutex.Lock()
		if r.generation == generation {
			r.cached = &ep
		}
		r.mutex.Unlock()

		r.emit(metrics.Event{
			Type:      metrics.EventResolved,
			Timestamp: time.Now(),
			Address:   ep.Address,
			Source:    string(ep.Source),
		})

		return ep.Address, nil
	})

	return addr.(string)
}

// Invalidate clears the cached endpoint so the next Resolve starts a
// fresh probe sequence. A resolution already in flight still completes
// and settles its waiters, but its result is not cached.
func (r *Resolver) Invalidate() {
	r.mutex.Lock()
	r.cached = nil
	r.generation++
	r.mutex.Unlock()

	r.flight.Forget(flightKey)

	r.emit(metrics.Event{
		Type:      metrics.EventInvalidated,
		Timestamp: time.Now(),
	})
}

// HealthCheck probes addr's liveness path. With an empty addr the
// resolved endpoint is probed instead. It never returns an error; any
// indeterminate outcome reports false.
func (r *Resolver) HealthCheck(ctx context.Context, addr string) bool {
	if addr == "" {
		addr = r.Resolve(ctx)
	}
	return r.prober.Probe(ctx, addr)
}

// discover probes candidates strictly in priority order. No parallel
// fan-out: worst case latency is the sum of per-candidate timeouts, and
// the winner is deterministic when several candidates are live.
func (r *Resolver) discover(ctx context.Context) endpoint.Endpoint {
	for _, candidate := range r.candidates {
		start := time.Now()
		live := r.prober.Probe(ctx, candidate)

		r.emit(metrics.Event{
			Type:      metrics.EventProbeCompleted,
			Timestamp: time.Now(),
			Candidate: candidate,
			OK:        live,
			Duration:  time.Since(start),
		})

		if live {
			r.logger.Info("Backend resolved",
				slog.String("address", candidate))
			return endpoint.Endpoint{
				Address:    candidate,
				Source:     endpoint.SourceProbed,
				ResolvedAt: time.Now(),
			}
		}
	}

	r.logger.Warn("No backend candidate responded, using fallback",
		slog.String("fallback", r.fallback),
		slog.Int("candidates", len(r.candidates)))

	return endpoint.Endpoint{
		Address:    r.fallback,
		Source:     endpoint.SourceFallback,
		ResolvedAt: time.Now(),
	}
}

func (r *Resolver) emit(event metrics.Event) {
	if r.collector == nil {
		return
	}

	select {
	case r.collector.EventChannel() <- event:
	default:
	}
}
