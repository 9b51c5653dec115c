package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exported by the service.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	CacheRequests       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_qbe_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_qbe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_qbe_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'find_all', 'count', 'exists', ...
		CacheRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_qbe_cache_requests_total",
			Help: "Cache lookups by result.",
		}, []string{"result"}),
	}

	m.CacheRequests.WithLabelValues("hit")
	m.CacheRequests.WithLabelValues("miss")
	m.CacheRequests.WithLabelValues("error")

	return m
}

// ObserveQuery records the duration of a database query started at begin.
// It is safe to call on a nil *Metrics.
func (m *Metrics) ObserveQuery(queryType string, begin time.Time) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(begin).Seconds())
}

// CacheResult counts a cache lookup outcome ("hit", "miss" or "error").
// It is safe to call on a nil *Metrics.
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}
