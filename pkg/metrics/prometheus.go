// Package metrics provides Prometheus metrics for the SkillSync recommendation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "skillsync"
	defaultSubsystem = "recommendations"
)

// Latency buckets in milliseconds. Provider calls take seconds, store calls
// a few milliseconds.
var (
	classifierBuckets = []float64{1, 5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}
	storeBuckets      = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}
	httpBuckets       = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000, 30000}
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Generation pipeline
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	classifierLatency  *prometheus.HistogramVec
	classifierFallback *prometheus.CounterVec
	normalizeFailures  prometheus.Counter
	breakerState       *prometheus.GaugeVec

	// Storage
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure rebuilds the global manager on a fresh registry with opts.
// It must run at startup, before any metric is recorded or served.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: httpBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // metric declarations
	auto := promauto.With(m.registry)

	m.generations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generations_total",
		Help:      "Recommendation generations by classifier source and outcome",
	}, []string{"source", "outcome"})

	m.generationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_duration_milliseconds",
		Help:      "End-to-end duration of a generate call in milliseconds",
		Buckets:   classifierBuckets,
	})

	m.classifierLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_latency_milliseconds",
		Help:      "Classifier latency in milliseconds by strategy",
		Buckets:   classifierBuckets,
	}, []string{"strategy"})

	m.classifierFallback = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_fallbacks_total",
		Help:      "Remote classifier failures absorbed by the heuristic, by reason",
	}, []string{"reason"})

	m.normalizeFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_responses_total",
		Help:      "Classifier outputs rejected by the normalizer",
	})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_breaker_state",
		Help:      "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Recommendation store latency in milliseconds by operation",
		Buckets:   storeBuckets,
	}, []string{"operation"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Recommendation store failures by operation",
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordGeneration counts one generate call.
func (m *Manager) RecordGeneration(source, outcome string, d time.Duration) {
	m.generations.WithLabelValues(source, outcome).Inc()
	m.generationDuration.Observe(ms(d))
}

// RecordClassifierLatency observes the latency of one classifier strategy.
func (m *Manager) RecordClassifierLatency(strategy string, d time.Duration) {
	m.classifierLatency.WithLabelValues(strategy).Observe(ms(d))
}

// RecordClassifierFallback counts a remote failure absorbed by the heuristic.
func (m *Manager) RecordClassifierFallback(reason string) {
	m.classifierFallback.WithLabelValues(reason).Inc()
}

// RecordMalformedResponse counts a normalizer rejection.
func (m *Manager) RecordMalformedResponse() {
	m.normalizeFailures.Inc()
}

// SetBreakerState records the provider circuit breaker state.
func (m *Manager) SetBreakerState(name string, state float64) {
	m.breakerState.WithLabelValues(name).Set(state)
}

// RecordStoreOperation observes one store call and counts it as failed when err != nil.
func (m *Manager) RecordStoreOperation(operation string, d time.Duration, err error) {
	m.storeLatency.WithLabelValues(operation).Observe(ms(d))
	if err != nil {
		m.storeErrors.WithLabelValues(operation).Inc()
	}
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int) {
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Package-level helpers delegating to the global manager.

// RecordGeneration counts one generate call on the global manager.
func RecordGeneration(source, outcome string, d time.Duration) {
	globalManager.RecordGeneration(source, outcome, d)
}

// RecordClassifierLatency observes classifier latency on the global manager.
func RecordClassifierLatency(strategy string, d time.Duration) {
	globalManager.RecordClassifierLatency(strategy, d)
}

// RecordClassifierFallback counts a fallback on the global manager.
func RecordClassifierFallback(reason string) {
	globalManager.RecordClassifierFallback(reason)
}

// RecordMalformedResponse counts a normalizer rejection on the global manager.
func RecordMalformedResponse() {
	globalManager.RecordMalformedResponse()
}

// SetBreakerState records breaker state on the global manager.
func SetBreakerState(name string, state float64) {
	globalManager.SetBreakerState(name, state)
}

// RecordStoreOperation observes a store call on the global manager.
func RecordStoreOperation(operation string, d time.Duration, err error) {
	globalManager.RecordStoreOperation(operation, d, err)
}

// RecordHTTPRequest counts an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystemMetrics sets the process gauges on the global manager.
func UpdateSystemMetrics(memBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memBytes, goroutines)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
