package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// EntitiesCreated counts committed inserts by entity (user, post, comment).
	EntitiesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_entities_created_total",
			Help: "Total number of users, posts and comments created",
		},
		[]string{"entity"},
	)

	// AuthFailures counts rejected logins and rejected bearer tokens.
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_failures_total",
			Help: "Total number of failed logins and rejected bearer tokens",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, EntitiesCreated, AuthFailures)
}

// RecordRequest records duration and count for an HTTP request. route should be the
// router pattern (e.g. /posts/{id}) so ids do not explode label cardinality.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

// IncCreated is called after a user, post or comment insert commits.
func IncCreated(entity string) {
	EntitiesCreated.WithLabelValues(entity).Inc()
}

// IncAuthFailure records a failed login ("login") or a rejected token ("token").
func IncAuthFailure(kind string) {
	AuthFailures.WithLabelValues(kind).Inc()
}
