// Package metrics provides Prometheus metrics for the feedkeeper server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedkeeper"

var (
	// RequestsTotal counts handled API requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of handled API requests",
		},
		[]string{"operation", "method", "status"},
	)

	// RequestDuration measures API request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ArticlesIngested counts articles accepted from ingestion collaborators.
	ArticlesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_ingested_total",
			Help:      "Total number of articles stored by ingestion",
		},
	)

	// SessionsExpired counts sessions removed by the cleanup loop.
	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Total number of expired sessions removed",
		},
	)

	// DatabaseUp tracks the last observed database status.
	DatabaseUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_up",
			Help:      "Database status (1 = reachable, 0 = unreachable)",
		},
	)
)

// RecordRequest records a handled API request.
func RecordRequest(operation, method string, status int, duration float64) {
	RequestsTotal.WithLabelValues(operation, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordIngested records the number of stored articles.
func RecordIngested(n int) {
	ArticlesIngested.Add(float64(n))
}

// RecordExpiredSessions records removed sessions.
func RecordExpiredSessions(n int64) {
	SessionsExpired.Add(float64(n))
}

// SetDatabaseUp sets the database status gauge.
func SetDatabaseUp(up bool) {
	if up {
		DatabaseUp.Set(1)
		return
	}
	DatabaseUp.Set(0)
}
