package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/UnknownOlympus/athena/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	ShouldFail bool
}

func (m *MockPinger) Ping(_ context.Context) error {
	if m.ShouldFail {
		return errors.New("mock db error")
	}
	return nil
}

func newBackend(t *testing.T, code int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		dbFails    bool
		backend    func(t *testing.T) string
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all systems ok",
			backend:    func(t *testing.T) string { return newBackend(t, http.StatusOK).URL },
			wantCode:   http.StatusOK,
			wantStatus: `{"database":"ok","backend":"ok"}`,
		},
		{
			name:       "backend without root route is ok",
			backend:    func(t *testing.T) string { return newBackend(t, http.StatusNotFound).URL },
			wantCode:   http.StatusOK,
			wantStatus: `{"database":"ok","backend":"ok"}`,
		},
		{
			name:       "database unavailable",
			dbFails:    true,
			backend:    func(t *testing.T) string { return newBackend(t, http.StatusOK).URL },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"unavailable","backend":"ok"}`,
		},
		{
			name:       "backend degraded",
			backend:    func(t *testing.T) string { return newBackend(t, http.StatusBadGateway).URL },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","backend":"degraded"}`,
		},
		{
			name:       "backend unreachable",
			backend:    func(_ *testing.T) string { return "invalid_url" },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","backend":"unreachable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := server.NewHealthChecker(&MockPinger{ShouldFail: tt.dbFails}, tt.backend(t), logger)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()

			checker.ServeHTTP(rr, req)

			require.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			require.JSONEq(t, tt.wantStatus, rr.Body.String())
		})
	}
}

func TestMonitoringHandler(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)
	appMetrics.HTTPRequests.WithLabelValues("/employees", "200").Inc()

	backend := newBackend(t, http.StatusOK)
	handler := server.NewMonitoringHandler(logger, reg, repository.NewMemorySessionRepository(logger), backend.URL)

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `athena_http_requests_total{code="200",route="/employees"} 1`)
		assert.Contains(t, rr.Body.String(), "athena_auth_attempts_total")
	})

	t.Run("healthz with memory sessions", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"database":"ok","backend":"ok"}`, rr.Body.String())
	})
}

func TestStartMonitoringServer_StopsWithContext(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		server.StartMonitoringServer(ctx, logger, prometheus.NewRegistry(), &MockPinger{}, 0, "http://127.0.0.1:1")
	}()

	cancel()
	<-done
}
