package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "admission_portal"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests processed",
	}, []string{"method", "route", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	backendCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_calls_total",
		Help:      "Calls made to the admissions backend by operation and outcome",
	}, []string{"operation", "outcome"})

	backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_call_duration_seconds",
		Help:      "Duration of admissions backend calls in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	listRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_refreshes_total",
		Help:      "List refresh requests by list and outcome (success, error, coalesced)",
	}, []string{"list", "outcome"})

	modalSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "modal_submissions_total",
		Help:      "Review and payment submissions by kind and outcome",
	}, []string{"kind", "outcome"})

	activeWorkspaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workspaces",
		Help:      "Admin workspaces currently held in memory",
	})
)

func init() {
	prometheus.MustRegister(
		httpRequests,
		httpLatency,
		backendCalls,
		backendLatency,
		listRefreshes,
		modalSubmissions,
		activeWorkspaces,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordBackendCall(operation, outcome string, duration time.Duration) {
	backendCalls.WithLabelValues(operation, outcome).Inc()
	backendLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordListRefresh(list, outcome string) {
	listRefreshes.WithLabelValues(list, outcome).Inc()
}

func RecordSubmission(kind, outcome string) {
	modalSubmissions.WithLabelValues(kind, outcome).Inc()
}

func SetActiveWorkspaces(n int) {
	activeWorkspaces.Set(float64(n))
}
