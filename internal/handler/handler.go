package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jobradar/endpoint-resolver/internal/resolver"
)

// StatusHandler reports the currently resolved backend endpoint and its
// liveness, for operators of the surrounding application. In-process
// consumers use the Resolver directly; this surface exists for diagnosis.
type StatusHandler struct {
	logger   *slog.Logger
	resolver *resolver.Resolver
}

type statusResponse struct {
	Address    string    `json:"address"`
	Source     string    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at,omitzero"`
	Healthy    bool      `json:"healthy"`
	CheckedAt  time.Time `json:"checked_at"`
}

func NewStatusHandler(logger *slog.Logger, res *resolver.Resolver) *StatusHandler {
	return &StatusHandler{
		logger:   logger,
		resolver: res,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := extractClientIP(r)

	h.logger.Info("Status request",
		slog.String("from", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := h.resolver.Resolve(r.Context())

	res := statusResponse{
		Address:   address,
		Source:    "override",
		Healthy:   h.resolver.HealthCheck(r.Context(), address),
		CheckedAt: time.Now(),
	}

	if ep, ok := h.resolver.Endpoint(); ok {
		res.Source = string(ep.Source)
		res.ResolvedAt = ep.ResolvedAt
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Livez answers liveness of the resolver process itself, not of the
// resolved backend.
func Livez(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
