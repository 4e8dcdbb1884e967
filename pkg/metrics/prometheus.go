// Package metrics provides Prometheus metrics for the jobsync synchronizer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the synchronizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Feed metrics - live subscription health
	snapshotsReceived   *prometheus.CounterVec
	feedErrors          *prometheus.CounterVec
	activeSubscriptions prometheus.Gauge

	// Join metrics - derived view freshness and scale
	joinRecomputes prometheus.Counter
	joinOutputSize prometheus.Gauge

	// Filter metrics
	filterLatency      prometheus.Histogram
	filteredResultSize prometheus.Gauge

	// Enrichment and application metrics
	enrichmentFallbacks   prometheus.Counter
	applicationsSubmitted prometheus.Counter
	applicationErrors     prometheus.Counter

	// Location metrics
	locationLookups *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jobsync",
		subsystem:        "synchronizer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.snapshotsReceived = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshots_received_total",
			Help:      "Total number of snapshots delivered per collection",
		},
		[]string{"collection"},
	)

	m.feedErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "feed_errors_total",
			Help:      "Total number of transport errors per collection",
		},
		[]string{"collection"},
	)

	m.activeSubscriptions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_subscriptions",
		Help:      "Current number of live feed subscriptions",
	})

	m.joinRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_recomputes_total",
		Help:      "Total number of full view recomputations",
	})

	m.joinOutputSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_output_size",
		Help:      "Number of enriched listings in the current view",
	})

	m.filterLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_latency_milliseconds",
		Help:      "Histogram of filter pipeline latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.filteredResultSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filtered_result_size",
		Help:      "Number of listings passing the current filter",
	})

	m.enrichmentFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrichment_fallbacks_total",
		Help:      "Total number of profile fetches that fell back to identity defaults",
	})

	m.applicationsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_submitted_total",
		Help:      "Total number of applications handed to the persistence collaborator",
	})

	m.applicationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "application_errors_total",
		Help:      "Total number of application persistence failures",
	})

	m.locationLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "location_lookups_total",
			Help:      "Total number of viewer location lookups by outcome",
		},
		[]string{"outcome"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Feed metrics functions.

// RecordSnapshotReceived increments the snapshot counter for a collection.
func RecordSnapshotReceived(collection string) {
	globalManager.snapshotsReceived.WithLabelValues(collection).Inc()
}

// RecordFeedError increments the transport error counter for a collection.
func RecordFeedError(collection string) {
	globalManager.feedErrors.WithLabelValues(collection).Inc()
}

// UpdateActiveSubscriptions sets the live subscription count.
func UpdateActiveSubscriptions(count int) {
	globalManager.activeSubscriptions.Set(float64(count))
}

// Join metrics functions.

// RecordJoinRecompute increments the view recomputation counter.
func RecordJoinRecompute() {
	globalManager.joinRecomputes.Inc()
}

// UpdateJoinOutputSize sets the current enriched view size.
func UpdateJoinOutputSize(size int) {
	globalManager.joinOutputSize.Set(float64(size))
}

// Filter metrics functions.

// RecordFilterLatency records one filter pass in milliseconds.
func RecordFilterLatency(latencyMs float64) {
	globalManager.filterLatency.Observe(latencyMs)
}

// UpdateFilteredResultSize sets the current filtered result size.
func UpdateFilteredResultSize(size int) {
	globalManager.filteredResultSize.Set(float64(size))
}

// Enrichment and application metrics functions.

// RecordEnrichmentFallback increments the enrichment fallback counter.
func RecordEnrichmentFallback() {
	globalManager.enrichmentFallbacks.Inc()
}

// RecordApplicationSubmitted increments the submitted applications counter.
func RecordApplicationSubmitted() {
	globalManager.applicationsSubmitted.Inc()
}

// RecordApplicationError increments the application persistence error counter.
func RecordApplicationError() {
	globalManager.applicationErrors.Inc()
}

// RecordLocationLookup records one viewer location attempt.
func RecordLocationLookup(valid bool) {
	outcome := "ok"
	if !valid {
		outcome = "unavailable"
	}
	globalManager.locationLookups.WithLabelValues(outcome).Inc()
}

// HTTP metrics functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics functions.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
