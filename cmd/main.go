package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobradar/endpoint-resolver/config"
	"github.com/jobradar/endpoint-resolver/internal/breaker"
	"github.com/jobradar/endpoint-resolver/internal/handler"
	"github.com/jobradar/endpoint-resolver/internal/httpserver"
	"github.com/jobradar/endpoint-resolver/internal/metrics"
	"github.com/jobradar/endpoint-resolver/internal/monitor"
	"github.com/jobradar/endpoint-resolver/internal/probe"
	"github.com/jobradar/endpoint-resolver/internal/resolver"
	"github.com/jobradar/endpoint-resolver/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	res, err := buildResolver(cfg, log, collector)
	if err != nil {
		log.Error("Failed to build resolver", slog.Any("err", err))
		os.Exit(1)
	}

	address := res.Resolve(ctx)
	log.Info("Backend endpoint resolved",
		slog.String("address", address),
		slog.Bool("override", res.OverrideMode()))

	mon, err := buildMonitor(cfg, res, log)
	if err != nil {
		log.Error("Failed to build monitor", slog.Any("err", err))
		os.Exit(1)
	}
	go mon.Run(ctx)

	statusHandler := handler.NewStatusHandler(log, res)
	mux := setupRouter(statusHandler, collector)

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create diagnostics server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting diagnostics server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildResolver(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*resolver.Resolver, error) {
	probeTimeout, err := time.ParseDuration(cfg.Probe.Timeout)
	if err != nil {
		return nil, err
	}

	prober := probe.NewHTTP(probeTimeout, cfg.Probe.Path, log)

	return resolver.New(resolver.Config{
		OverrideURL: cfg.Resolver.OverrideURL,
		Candidates:  cfg.Resolver.Candidates,
		FallbackURL: cfg.Resolver.FallbackURL,
		APIPrefix:   cfg.Resolver.APIPrefix,
	}, prober, log, collector), nil
}

func buildMonitor(cfg *config.Config, res *resolver.Resolver, log *slog.Logger) (*monitor.Monitor, error) {
	interval, err := time.ParseDuration(cfg.Monitor.Interval)
	if err != nil {
		return nil, err
	}

	brk := breaker.New(cfg.Monitor.FailureThreshold, interval)

	return monitor.New(res, brk, interval, log), nil
}
