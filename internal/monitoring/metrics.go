package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route pattern, and status",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	conventionUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convention_updates_total",
			Help: "Convention update requests by outcome",
		},
		[]string{"outcome"},
	)

	catalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog search cache lookups by result",
		},
		[]string{"result"},
	)
)

// Update outcomes recorded by RecordConventionUpdate.
const (
	UpdateCommitted  = "committed"
	UpdateRolledBack = "rolled_back"
	UpdateImageOnly  = "image_only"
	UpdateRejected   = "rejected"
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordConventionUpdate counts one convention update request by outcome.
func RecordConventionUpdate(outcome string) {
	conventionUpdates.WithLabelValues(outcome).Inc()
}

// RecordCatalogCacheLookup counts one cache lookup as a hit or miss.
func RecordCatalogCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	catalogCacheLookups.WithLabelValues(result).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
