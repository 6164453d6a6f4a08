package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jobradar/endpoint-resolver/internal/handler"
	"github.com/jobradar/endpoint-resolver/internal/probe"
	"github.com/jobradar/endpoint-resolver/internal/resolver"
)

func TestHandler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Handler Suite")
}

var _ = Describe("StatusHandler", func() {
	var (
		log     *slog.Logger
		backend *httptest.Server
	)

	type statusResponse struct {
		Address    string    `json:"address"`
		Source     string    `json:"source"`
		ResolvedAt time.Time `json:"resolved_at"`
		Healthy    bool      `json:"healthy"`
		CheckedAt  time.Time `json:"checked_at"`
	}

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))

		backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
	})

	AfterEach(func() {
		backend.Close()
	})

	It("should report the resolved endpoint with liveness", func() {
		prober := probe.NewHTTP(time.Second, "/health", log)
		res := resolver.New(resolver.Config{
			Candidates:  []string{backend.URL},
			FallbackURL: backend.URL,
		}, prober, log, nil)

		statusHandler := handler.NewStatusHandler(log, res)

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		statusHandler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

		var body statusResponse
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Address).To(Equal(backend.URL))
		Expect(body.Source).To(Equal("probed"))
		Expect(body.Healthy).To(BeTrue())
		Expect(body.ResolvedAt).NotTo(BeZero())
	})

	It("should report an override endpoint without a resolution timestamp", func() {
		prober := probe.NewHTTP(time.Second, "/health", log)
		res := resolver.New(resolver.Config{
			OverrideURL: backend.URL + "/v1/",
			APIPrefix:   "/v1",
		}, prober, log, nil)

		statusHandler := handler.NewStatusHandler(log, res)

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		statusHandler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))

		var body statusResponse
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Address).To(Equal(backend.URL + "/v1"))
		Expect(body.Source).To(Equal("override"))
		Expect(body.Healthy).To(BeTrue())
		Expect(body.ResolvedAt).To(BeZero())
	})

	It("should report unhealthy when the resolved endpoint is dead", func() {
		deadURL := backend.URL
		backend.Close()

		prober := probe.NewHTTP(500*time.Millisecond, "/health", log)
		res := resolver.New(resolver.Config{
			Candidates:  []string{deadURL},
			FallbackURL: deadURL,
		}, prober, log, nil)

		statusHandler := handler.NewStatusHandler(log, res)

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		statusHandler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))

		var body statusResponse
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Source).To(Equal("fallback"))
		Expect(body.Healthy).To(BeFalse())
	})

	It("should reject non-GET methods", func() {
		prober := probe.NewHTTP(time.Second, "/health", log)
		res := resolver.New(resolver.Config{
			OverrideURL: backend.URL,
		}, prober, log, nil)

		statusHandler := handler.NewStatusHandler(log, res)

		req := httptest.NewRequest(http.MethodPost, "/status", nil)
		rec := httptest.NewRecorder()
		statusHandler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})
})

var _ = Describe("Livez", func() {
	It("should answer 204", func() {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()
		handler.Livez(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})
})
