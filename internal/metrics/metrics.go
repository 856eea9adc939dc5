package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors used by the front-end.
// It covers calls to the employee backend, authentication attempts,
// form validation failures, served pages and session storage queries.
type Metrics struct {
	BackendRequests        *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	AuthAttempts           *prometheus.CounterVec
	ValidationFailures     *prometheus.CounterVec
	HTTPRequests           *prometheus.CounterVec
	DBQueryDuration        *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		BackendRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_backend_requests_total",
			Help: "Total requests sent to the employee backend.",
		}, []string{"endpoint", "status"}),
		BackendRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "athena_backend_request_duration_seconds",
			Help:    "Duration of requests sent to the employee backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		AuthAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_auth_attempts_total",
			Help: "Login and signup attempts by result.",
		}, []string{"action", "result"}),
		ValidationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_validation_failures_total",
			Help: "Employee form fields rejected by validation.",
		}, []string{"field"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_http_requests_total",
			Help: "Pages and actions served to browsers.",
		}, []string{"route", "code"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "athena_db_query_duration_seconds",
			Help:    "Duration of session storage queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'save_session', 'get_token'
	}

	metrics.AuthAttempts.WithLabelValues("login", "success")
	metrics.AuthAttempts.WithLabelValues("login", "failure")

	return metrics
}
