package probe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Prober reports whether a backend base address is currently live.
type Prober interface {
	Probe(ctx context.Context, base string) bool
}

// HTTPProber probes a backend by sending an HTTP GET to a well-known
// liveness path relative to the base address. A backend is live iff the
// response arrives within the timeout and carries a 2xx status.
type HTTPProber struct {
	client *http.Client
	path   string
	logger *slog.Logger
}

// NewHTTP creates a prober with a per-probe timeout and liveness path.
func NewHTTP(timeout time.Duration, path string, logger *slog.Logger) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
		},
		path:   path,
		logger: logger,
	}
}

// Probe never returns an error: any network failure, timeout, or
// non-success status is a negative result and is logged, not propagated.
func (p *HTTPProber) Probe(ctx context.Context, base string) bool {
	baseURL, err := url.Parse(base)
	if err != nil {
		p.logger.Debug("Probe skipped, unparseable address",
			slog.String("address", base),
			slog.String("error", err.Error()))
		return false
	}

	target := baseURL.ResolveReference(&url.URL{Path: p.path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false
	}

	res, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Probe failed",
			slog.String("target", target.String()),
			slog.String("error", err.Error()))
		return false
	}
	defer res.Body.Close()

	live := res.StatusCode >= 200 && res.StatusCode < 300
	if !live {
		p.logger.Debug("Probe got non-success status",
			slog.String("target", target.String()),
			slog.Int("status", res.StatusCode))
	}

	return live
}
