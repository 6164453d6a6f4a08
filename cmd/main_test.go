package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jobradar/endpoint-resolver/config"
	"github.com/jobradar/endpoint-resolver/internal/handler"
	"github.com/jobradar/endpoint-resolver/internal/metrics"
	"github.com/jobradar/endpoint-resolver/internal/probe"
	"github.com/jobradar/endpoint-resolver/internal/resolver"
)

func TestMain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Main Suite")
}

var _ = Describe("buildResolver", func() {
	var (
		log *slog.Logger
		cfg *config.Config
	)

	BeforeEach(func() {
		log = slog.Default()
		cfg = &config.Config{
			Resolver: config.ResolverConfig{
				Candidates:  []string{"http://localhost:8000"},
				FallbackURL: "http://localhost:8000",
				APIPrefix:   "/v1",
			},
			Probe: config.ProbeConfig{
				Path:    "/health",
				Timeout: "3s",
			},
		}
	})

	It("should build a resolver in discovery mode", func() {
		res, err := buildResolver(cfg, log, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).NotTo(BeNil())
		Expect(res.OverrideMode()).To(BeFalse())
	})

	It("should build a resolver in override mode", func() {
		cfg.Resolver.OverrideURL = "http://api.example.com/v1/"

		res, err := buildResolver(cfg, log, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.OverrideMode()).To(BeTrue())
	})

	It("should reject an invalid probe timeout", func() {
		cfg.Probe.Timeout = "not-a-duration"

		res, err := buildResolver(cfg, log, nil)
		Expect(err).To(HaveOccurred())
		Expect(res).To(BeNil())
	})
})

var _ = Describe("buildMonitor", func() {
	var (
		log *slog.Logger
		cfg *config.Config
	)

	BeforeEach(func() {
		log = slog.Default()
		cfg = &config.Config{
			Monitor: config.MonitorConfig{
				Interval:         "30s",
				FailureThreshold: 3,
			},
		}
	})

	It("should build a monitor", func() {
		res := resolver.New(resolver.Config{
			Candidates:  []string{"http://localhost:8000"},
			FallbackURL: "http://localhost:8000",
		}, probe.NewHTTP(0, "/health", log), log, nil)

		mon, err := buildMonitor(cfg, res, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(mon).NotTo(BeNil())
	})

	It("should reject an invalid interval", func() {
		cfg.Monitor.Interval = "soon"

		mon, err := buildMonitor(cfg, nil, log)
		Expect(err).To(HaveOccurred())
		Expect(mon).To(BeNil())
	})
})

var _ = Describe("setupRouter", func() {
	It("should route the diagnostics endpoints", func() {
		log := slog.Default()

		res := resolver.New(resolver.Config{
			OverrideURL: "http://api.example.com",
			APIPrefix:   "/v1",
		}, probe.NewHTTP(0, "/health", log), log, nil)

		collector := metrics.NewCollector(16, log)
		mux := setupRouter(handler.NewStatusHandler(log, res), collector)

		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
	})
})
