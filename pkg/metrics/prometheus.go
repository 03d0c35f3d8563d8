// Package metrics provides Prometheus metrics for the Kobe Assist estimator service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Default histogram buckets for latency metrics, in milliseconds.
var defaultLatencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Manager owns every Prometheus collector the service registers.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Estimation pipeline
	jobsSubmitted  prometheus.Counter
	jobsDuplicate  prometheus.Counter
	jobsCompleted  prometheus.Counter
	jobsFailed     prometheus.Counter
	jobDuration    prometheus.Histogram
	gamesAnalyzed  prometheus.Counter
	pointsAwarded  prometheus.Counter
	playersTracked prometheus.Gauge

	// Upstream fetches
	fetches      *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter

	// Queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueRejections  prometheus.Counter
	workerActive     prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process health
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

var defaultManager *Manager

func init() { //nolint:gochecknoinits // global metrics setup mirrors promauto usage
	defaultManager = NewManager()
}

// NewManager creates a Manager and registers all collectors on its registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kobe",
		subsystem:        "estimator",
		histogramBuckets: defaultLatencyBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		}
	}

	m.jobsSubmitted = prometheus.NewCounter(factory("jobs_submitted_total", "Estimation jobs accepted for processing"))
	m.jobsDuplicate = prometheus.NewCounter(factory("jobs_duplicate_total", "Estimation submissions suppressed as in-flight duplicates"))
	m.jobsCompleted = prometheus.NewCounter(factory("jobs_completed_total", "Estimation jobs that published a rating"))
	m.jobsFailed = prometheus.NewCounter(factory("jobs_failed_total", "Estimation jobs that ended without a rating"))
	m.jobDuration = prometheus.NewHistogram(histOpts("job_duration_ms", "End-to-end estimation job duration in milliseconds"))
	m.gamesAnalyzed = prometheus.NewCounter(factory("games_analyzed_total", "Individual game logs scanned for sequences"))
	m.pointsAwarded = prometheus.NewCounter(factory("points_awarded_total", "Total points credited to detected sequences"))
	m.playersTracked = prometheus.NewGauge(gaugeOpts("players_tracked", "Players with a published rating"))

	m.fetches = prometheus.NewCounterVec(factory("upstream_fetches_total", "Requests issued to the stats provider"), []string{"endpoint"})
	m.fetchErrors = prometheus.NewCounterVec(factory("upstream_fetch_errors_total", "Failed requests to the stats provider"), []string{"endpoint"})
	m.fetchLatency = prometheus.NewHistogram(histOpts("upstream_fetch_latency_ms", "Stats provider request latency in milliseconds"))
	m.cacheHits = prometheus.NewCounter(factory("pbp_cache_hits_total", "Play-by-play cache hits"))
	m.cacheMisses = prometheus.NewCounter(factory("pbp_cache_misses_total", "Play-by-play cache misses"))

	m.queueSize = prometheus.NewGauge(gaugeOpts("queue_size", "Jobs currently queued"))
	m.queueCapacity = prometheus.NewGauge(gaugeOpts("queue_capacity", "Configured job queue capacity"))
	m.queueUtilization = prometheus.NewGauge(gaugeOpts("queue_utilization", "Queued jobs as a fraction of capacity"))
	m.queueEnqueues = prometheus.NewCounter(factory("queue_enqueues_total", "Jobs enqueued"))
	m.queueRejections = prometheus.NewCounter(factory("queue_rejections_total", "Jobs rejected by a full or closed queue"))
	m.workerActive = prometheus.NewGauge(gaugeOpts("worker_active", "Workers in the estimation pool"))

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests by endpoint, method, and status"), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(histOpts("http_request_duration_ms", "HTTP request duration in milliseconds"), []string{"endpoint", "method"})

	m.systemMemoryBytes = prometheus.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutines = prometheus.NewGauge(gaugeOpts("system_goroutines", "Live goroutines"))

	m.registry.MustRegister(
		m.jobsSubmitted, m.jobsDuplicate, m.jobsCompleted, m.jobsFailed,
		m.jobDuration, m.gamesAnalyzed, m.pointsAwarded, m.playersTracked,
		m.fetches, m.fetchErrors, m.fetchLatency, m.cacheHits, m.cacheMisses,
		m.queueSize, m.queueCapacity, m.queueUtilization, m.queueEnqueues, m.queueRejections,
		m.workerActive, m.httpRequests, m.httpRequestDuration,
		m.systemMemoryBytes, m.systemGoroutines,
	)
}

// Registry returns the manager's registry for promhttp handlers.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// GetRegistry returns the default manager's registry.
func GetRegistry() *prometheus.Registry {
	return defaultManager.Registry()
}

// Estimation pipeline helpers.

func RecordJobSubmitted()  { defaultManager.jobsSubmitted.Inc() }
func RecordJobDuplicate()  { defaultManager.jobsDuplicate.Inc() }
func RecordJobCompleted()  { defaultManager.jobsCompleted.Inc() }
func RecordJobFailed()     { defaultManager.jobsFailed.Inc() }
func RecordGameAnalyzed()  { defaultManager.gamesAnalyzed.Inc() }

func RecordJobDuration(ms float64) { defaultManager.jobDuration.Observe(ms) }

func RecordPointsAwarded(points int) {
	if points > 0 {
		defaultManager.pointsAwarded.Add(float64(points))
	}
}

func UpdatePlayersTracked(count int) { defaultManager.playersTracked.Set(float64(count)) }

// Upstream fetch helpers.

func RecordFetch(endpoint string)      { defaultManager.fetches.WithLabelValues(endpoint).Inc() }
func RecordFetchError(endpoint string) { defaultManager.fetchErrors.WithLabelValues(endpoint).Inc() }
func RecordFetchLatency(ms float64)    { defaultManager.fetchLatency.Observe(ms) }
func RecordCacheHit()                  { defaultManager.cacheHits.Inc() }
func RecordCacheMiss()                 { defaultManager.cacheMisses.Inc() }

// Queue and worker helpers.

func UpdateQueueSize(size int)         { defaultManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { defaultManager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueUtilization(u float64) { defaultManager.queueUtilization.Set(u) }
func RecordQueueEnqueue()              { defaultManager.queueEnqueues.Inc() }
func RecordQueueRejection()            { defaultManager.queueRejections.Inc() }
func UpdateWorkerCount(count int)      { defaultManager.workerActive.Set(float64(count)) }

// HTTP helpers.

func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// Process health helpers.

func UpdateSystemMemoryUsage(bytes uint64) { defaultManager.systemMemoryBytes.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(count int) { defaultManager.systemGoroutines.Set(float64(count)) }
