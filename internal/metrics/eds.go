package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Remote service and token lifecycle metrics.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edsapi",
			Name:      "remote_requests_total",
			Help:      "Total number of calls to the remote search service",
		},
		[]string{"endpoint", "status"}, // status: "ok" / "api_error" / "transport_error" / "decode_error"
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edsapi",
			Name:      "remote_request_duration_seconds",
			Help:      "Remote call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	SessionRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edsapi",
			Name:      "session_retries_total",
			Help:      "Calls re-issued after the service rejected the session token",
		},
	)

	TokenRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edsapi",
			Name:      "token_refresh_total",
			Help:      "Authentication and session tokens obtained from the service",
		},
		[]string{"token", "result"}, // token: "auth" / "session"; result: "ok" / "error"
	)

	TokenCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edsapi",
			Name:      "token_cache_total",
			Help:      "Token cache hits and misses",
		},
		[]string{"entry", "result"}, // "hit" / "miss"
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edsapi",
			Name:      "backend_errors_total",
			Help:      "Errors surfaced by backend operations",
		},
		[]string{"operation", "kind"},
	)
)

var registerOnce sync.Once

// Register adds every collector of this package to the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RemoteRequestsTotal,
			RemoteRequestDuration,
			SessionRetriesTotal,
			TokenRefreshTotal,
			TokenCacheTotal,
			BackendErrorsTotal,
			HTTPRequestDuration,
			HTTPRequestsTotal,
			HTTPInFlight,
		)
	})
}
