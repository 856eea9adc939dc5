package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
)

const healthClientTimeout = 5 * time.Second

// Pinger reports whether the session storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker answers /healthz with the state of session storage and the employee backend.
type HealthChecker struct {
	store      Pinger
	backendURL string
	httpClient *http.Client
	log        *slog.Logger
}

func NewHealthChecker(store Pinger, backendURL string, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		store:      store,
		backendURL: backendURL,
		httpClient: &http.Client{Timeout: healthClientTimeout},
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: session storage ping", sl.Err(err))
	} else {
		status["database"] = "ok"
	}

	status["backend"] = h.checkBackend(ctx)
	if status["backend"] != "ok" {
		overallStatus = http.StatusServiceUnavailable
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

// checkBackend probes the backend root. Any answer below 500 means the backend is up;
// the root path itself is not a route, so 404 is expected there.
func (h *HealthChecker) checkBackend(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.backendURL, nil)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: invalid backend url", "url", h.backendURL, sl.Err(err))
		return "unreachable"
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: backend unreachable", "url", h.backendURL, sl.Err(err))
		return "unreachable"
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			h.log.WarnContext(ctx, "Failed to close response body", sl.Err(err))
		}
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.WarnContext(
			ctx,
			"Health check failed: backend returned error status",
			"url",
			h.backendURL,
			"status_code",
			resp.StatusCode,
		)
		return "degraded"
	}

	return "ok"
}
