package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewMonitoringHandler serves /metrics from reg and /healthz from a HealthChecker.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, store Pinger, backendURL string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/healthz", NewHealthChecker(store, backendURL, log))

	return mux
}

// StartMonitoringServer blocks serving the monitoring endpoints on port until ctx is done.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	store Pinger,
	port int,
	backendURL string,
) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           NewMonitoringHandler(log, reg, store, backendURL),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down monitoring server", sl.Err(err))
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
		return
	}
	log.InfoContext(ctx, "Monitoring server stopped")
}
