package main

import (
	"net/http"

	"github.com/jobradar/endpoint-resolver/internal/handler"
	"github.com/jobradar/endpoint-resolver/internal/metrics"
)

func setupRouter(statusHandler *handler.StatusHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", statusHandler.ServeHTTP)
	mux.HandleFunc("/metrics", metricsCollector.Handler())
	mux.HandleFunc("/livez", handler.Livez)

	return mux
}
