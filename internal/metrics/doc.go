// Package metrics provides real-time metrics collection for endpoint resolution.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Probe attempts and successes per candidate
//   - Resolutions grouped by source (override, probed, fallback)
//   - Cache invalidations
//
// The fallback resolution counter exists so operators can alert on "no live
// backend found" instead of relying on a single warning log line.
//
// The collector runs in a dedicated goroutine and processes events without
// blocking resolution. Events are sent via buffered channels with non-blocking
// semantics so a slow collector can never stall a caller waiting on Resolve.
//
// Example usage:
//
//	collector := metrics.NewCollector(256, logger)
//	collector.Start(ctx)
//
//	// Emit events during resolution
//	collector.EventChannel() <- metrics.Event{
//		Type:      metrics.EventProbeCompleted,
//		Candidate: "http://localhost:8000",
//		OK:        true,
//		Duration:  12 * time.Millisecond,
//	}
//
//	// Get metrics snapshot
//	snapshot := collector.Snapshot()
//
// The package provides thread-safe metrics storage using sync.RWMutex and
// supports graceful shutdown with event draining to prevent data loss.
package metrics
