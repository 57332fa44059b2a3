// Package metrics provides Prometheus metrics for the birdie deals service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Recommendation engine
	recommendationsGenerated prometheus.Counter
	recommendationConfidence *prometheus.CounterVec
	dealsPerRecommendation   prometheus.Histogram
	ruleHits                 *prometheus.CounterVec
	gapsDetected             *prometheus.CounterVec
	recommendationLatency    prometheus.Histogram

	// Engagement
	engagementEvents     *prometheus.CounterVec
	engagementDuplicates prometheus.Counter

	// Notification pipeline
	notificationsEnqueued  *prometheus.CounterVec
	notificationsDropped   *prometheus.CounterVec
	notificationsDelivered *prometheus.CounterVec
	notificationsFailed    *prometheus.CounterVec
	dispatchLatency        prometheus.Histogram
	breakerState           *prometheus.GaugeVec

	// Queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	workerCount      prometheus.Gauge

	// Profile store
	storedProfiles prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "birdie",
		subsystem:        "deals",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.recommendationsGenerated = m.counter("recommendations_generated_total",
		"Total number of personalized recommendation sets produced")
	m.recommendationConfidence = m.counterVec("recommendation_confidence_total",
		"Recommendation sets by confidence label", "confidence")
	m.dealsPerRecommendation = m.histogram("deals_per_recommendation",
		"Number of deals returned per recommendation set", []float64{0, 1, 2, 3, 4, 5, 6, 8})
	m.ruleHits = m.counterVec("rule_hits_total",
		"Number of times each matching rule contributed a deal", "rule")
	m.gapsDetected = m.counterVec("gaps_detected_total",
		"Bag gaps detected by gap type", "gap_type")
	m.recommendationLatency = m.histogram("recommendation_latency_milliseconds",
		"Time to build a recommendation envelope in milliseconds", m.histogramBuckets)

	m.engagementEvents = m.counterVec("engagement_events_total",
		"Deal view and click events accepted", "event")
	m.engagementDuplicates = m.counter("engagement_duplicates_total",
		"Engagement events suppressed as repeats")

	m.notificationsEnqueued = m.counterVec("notifications_enqueued_total",
		"Marketing notifications handed to the dispatch queue", "event")
	m.notificationsDropped = m.counterVec("notifications_dropped_total",
		"Marketing notifications dropped before dispatch", "event", "reason")
	m.notificationsDelivered = m.counterVec("notifications_delivered_total",
		"Marketing notifications accepted by the sink", "event")
	m.notificationsFailed = m.counterVec("notifications_failed_total",
		"Marketing notifications that failed delivery and were dropped", "event", "reason")
	m.dispatchLatency = m.histogram("dispatch_latency_milliseconds",
		"Sink delivery latency in milliseconds", []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
	m.breakerState = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)", ConstLabels: m.constLabels,
	}, []string{"name"})

	m.queueSize = m.gauge("queue_size", "Current number of queued notifications")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued notifications")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.workerCount = m.gauge("worker_count", "Number of dispatch workers")

	m.storedProfiles = m.gauge("stored_profiles", "Number of golfer profiles in the profile store")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "http_request_duration_milliseconds",
		Help: "HTTP request duration in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total",
		"HTTP responses with status >= 400 by endpoint and error type", "endpoint", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRecommendation records one generated recommendation set.
func RecordRecommendation(dealCount int, confidence string, latencyMs float64) {
	globalManager.recommendationsGenerated.Inc()
	globalManager.dealsPerRecommendation.Observe(float64(dealCount))
	globalManager.recommendationLatency.Observe(latencyMs)
	if confidence != "" {
		globalManager.recommendationConfidence.WithLabelValues(confidence).Inc()
	}
}

// RecordRuleHit increments the hit counter of a matching rule.
func RecordRuleHit(rule string) {
	globalManager.ruleHits.WithLabelValues(rule).Inc()
}

// RecordGapDetected counts a detected bag gap.
func RecordGapDetected(gapType string) {
	globalManager.gapsDetected.WithLabelValues(gapType).Inc()
}

// RecordEngagement counts an accepted deal view or click.
func RecordEngagement(event string) {
	globalManager.engagementEvents.WithLabelValues(event).Inc()
}

// RecordEngagementDuplicate counts a suppressed repeat engagement event.
func RecordEngagementDuplicate() {
	globalManager.engagementDuplicates.Inc()
}

// RecordNotificationEnqueued counts a notification accepted by the queue.
func RecordNotificationEnqueued(event string) {
	globalManager.notificationsEnqueued.WithLabelValues(event).Inc()
}

// RecordNotificationDropped counts a notification that never reached a worker.
func RecordNotificationDropped(event, reason string) {
	globalManager.notificationsDropped.WithLabelValues(event, reason).Inc()
}

// RecordNotificationDelivered counts a successful delivery and its latency.
func RecordNotificationDelivered(event string, latencyMs float64) {
	globalManager.notificationsDelivered.WithLabelValues(event).Inc()
	globalManager.dispatchLatency.Observe(latencyMs)
}

// RecordNotificationFailed counts a failed delivery and its latency.
func RecordNotificationFailed(event, reason string, latencyMs float64) {
	globalManager.notificationsFailed.WithLabelValues(event, reason).Inc()
	globalManager.dispatchLatency.Observe(latencyMs)
}

// UpdateBreakerState sets the circuit breaker state gauge.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateStoredProfiles sets the number of stored profiles.
func UpdateStoredProfiles(count int) {
	globalManager.storedProfiles.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
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
