package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	dashboardCacheTotal   *prometheus.CounterVec
	domainEventsPublished *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exposed at /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		dashboardCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_total",
			Help: "Dashboard cache lookups partitioned by result.",
		}, []string{"dashboard", "result"})

		domainEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Total number of domain events published.",
		}, []string{"type"})

		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, dashboardCacheTotal, domainEventsPublished)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPDuration exposes the request latency histogram.
func HTTPDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpRequestDuration
}

// DashboardCache exposes the dashboard cache hit/miss counter.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheTotal
}

// DomainEventsPublished exposes the domain event counter.
func DomainEventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return domainEventsPublished
}
