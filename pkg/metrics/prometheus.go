// Package metrics provides Prometheus metrics for the marquee dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// renderBuckets covers sub-millisecond renders up to pathological datasets.
var renderBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dashboard
	eventsProcessed  *prometheus.CounterVec
	eventsRejected   *prometheus.CounterVec
	storyTransitions *prometheus.CounterVec
	renderLatency    prometheus.Histogram
	filteredRows     prometheus.Gauge
	datasetRows      prometheus.Gauge
	sessions         prometheus.Gauge
	sessionEvictions prometheus.Counter
	exports          *prometheus.CounterVec
	chartRenders     *prometheus.CounterVec

	// Event queue
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "marquee",
		subsystem:        "dashboard",
		histogramBuckets: renderBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.eventsProcessed = auto.NewCounterVec(m.counterOpts("events_processed_total",
		"Input events applied by the event loop, by action"), []string{"action"})
	m.eventsRejected = auto.NewCounterVec(m.counterOpts("events_rejected_total",
		"Input events that never reached the event loop, by reason"), []string{"reason"})
	m.storyTransitions = auto.NewCounterVec(m.counterOpts("story_transitions_total",
		"Story navigator transitions, by direction and whether the step changed"), []string{"direction", "moved"})
	m.renderLatency = auto.NewHistogram(m.histogramOpts("render_latency_milliseconds",
		"Time spent in the filter, aggregate and view selection pipeline"))
	m.filteredRows = auto.NewGauge(m.gaugeOpts("filtered_rows",
		"Rows left after the most recent filter"))
	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows",
		"Rows in the loaded dataset"))
	m.sessions = auto.NewGauge(m.gaugeOpts("sessions",
		"Live dashboard sessions"))
	m.sessionEvictions = auto.NewCounter(m.counterOpts("session_evictions_total",
		"Sessions dropped to stay within the session limit"))
	m.exports = auto.NewCounterVec(m.counterOpts("exports_total",
		"Filtered dataset downloads, by format"), []string{"format"})
	m.chartRenders = auto.NewCounterVec(m.counterOpts("chart_renders_total",
		"Scatter chart renders, by format and outcome"), []string{"format", "outcome"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size",
		"Events waiting for the event loop"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Maximum events the queue holds"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests, by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses, by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines",
		"Number of goroutines"))
}

// RecordEventProcessed counts an event applied by the event loop.
func RecordEventProcessed(action string) {
	globalManager.eventsProcessed.WithLabelValues(action).Inc()
}

// RecordEventRejected counts an event dropped before processing.
func RecordEventRejected(reason string) {
	globalManager.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordStoryTransition counts a prev/next press.
func RecordStoryTransition(direction string, moved bool) {
	m := "false"
	if moved {
		m = "true"
	}
	globalManager.storyTransitions.WithLabelValues(direction, m).Inc()
}

// RecordRenderLatency records the render pipeline duration.
func RecordRenderLatency(latencyMs float64) {
	globalManager.renderLatency.Observe(latencyMs)
}

// UpdateFilteredRows sets the row count of the latest filtered dataset.
func UpdateFilteredRows(n int) {
	globalManager.filteredRows.Set(float64(n))
}

// UpdateDatasetRows sets the row count of the loaded dataset.
func UpdateDatasetRows(n int) {
	globalManager.datasetRows.Set(float64(n))
}

// UpdateSessions sets the live session count.
func UpdateSessions(n int) {
	globalManager.sessions.Set(float64(n))
}

// RecordSessionEviction counts a session dropped by the session store.
func RecordSessionEviction() {
	globalManager.sessionEvictions.Inc()
}

// RecordExport counts a download of the filtered dataset.
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// RecordChartRender counts a scatter render; outcome is "ok" or "fallback".
func RecordChartRender(format, outcome string) {
	globalManager.chartRenders.WithLabelValues(format, outcome).Inc()
}

// UpdateQueueSize sets the number of queued events.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
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
