package prometheus

import (
	"strconv"
	"time"
)

// Histogram buckets tuned per concern.
var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	pipelineDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300}
	dbDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	clauseCountBuckets      = []float64{1, 10, 25, 50, 100, 250, 500, 1000, 2500}
	changeCountBuckets      = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}
)

// AppMetrics holds every metric vector the application records.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	SegmentationTotal    CounterVec
	SegmentationDuration HistogramVec
	SegmentedClauses     HistogramVec

	EmbeddingRequestsTotal CounterVec
	EmbeddingDuration      HistogramVec

	ComparisonTotal    CounterVec
	ComparisonDuration HistogramVec
	ComparisonChanges  HistogramVec

	ConflictScanTotal    CounterVec
	ConflictScanDuration HistogramVec
	ConflictsFound       CounterVec

	SearchDuration HistogramVec

	DBQueryDuration HistogramVec
	CacheHitsTotal  CounterVec
	CacheMissesTotal CounterVec

	EventsPublishedTotal CounterVec

	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// NewAppMetrics registers all metric vectors on the collector.
func NewAppMetrics(c Collector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = c.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = c.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = c.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.SegmentationTotal = c.RegisterCounter("segmentation_total", "Version segmentation runs", "status")
	m.SegmentationDuration = c.RegisterHistogram("segmentation_duration_seconds", "Version segmentation duration", pipelineDurationBuckets, "status")
	m.SegmentedClauses = c.RegisterHistogram("segmentation_clause_count", "Clauses produced per segmented version", clauseCountBuckets)

	m.EmbeddingRequestsTotal = c.RegisterCounter("embedding_requests_total", "Embedding service requests", "status")
	m.EmbeddingDuration = c.RegisterHistogram("embedding_duration_seconds", "Embedding request duration", httpDurationBuckets, "status")

	m.ComparisonTotal = c.RegisterCounter("comparison_total", "Version comparisons", "status")
	m.ComparisonDuration = c.RegisterHistogram("comparison_duration_seconds", "Version comparison duration", pipelineDurationBuckets, "status")
	m.ComparisonChanges = c.RegisterHistogram("comparison_change_count", "Changes found per comparison", changeCountBuckets)

	m.ConflictScanTotal = c.RegisterCounter("conflict_scan_total", "Conflict scans", "status")
	m.ConflictScanDuration = c.RegisterHistogram("conflict_scan_duration_seconds", "Conflict scan duration", pipelineDurationBuckets, "status")
	m.ConflictsFound = c.RegisterCounter("conflicts_found_total", "Detected conflicts by risk level", "risk_level")

	m.SearchDuration = c.RegisterHistogram("search_duration_seconds", "Full-text search duration", httpDurationBuckets, "index")

	m.DBQueryDuration = c.RegisterHistogram("db_query_duration_seconds", "Database query duration", dbDurationBuckets, "operation")
	m.CacheHitsTotal = c.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = c.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.EventsPublishedTotal = c.RegisterCounter("events_published_total", "Published lifecycle events", "topic", "status")

	m.HealthCheckStatus = c.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")
	m.ErrorsTotal = c.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordHTTPRequest records one served HTTP request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSegmentation records one segmentation run.
func (m *AppMetrics) RecordSegmentation(duration time.Duration, clauseCount int, err error) {
	status := statusLabel(err)
	m.SegmentationTotal.WithLabelValues(status).Inc()
	m.SegmentationDuration.WithLabelValues(status).Observe(duration.Seconds())
	if err == nil {
		m.SegmentedClauses.WithLabelValues().Observe(float64(clauseCount))
	}
}

// RecordEmbedding records one embedding service round trip.
func (m *AppMetrics) RecordEmbedding(duration time.Duration, err error) {
	status := statusLabel(err)
	m.EmbeddingRequestsTotal.WithLabelValues(status).Inc()
	m.EmbeddingDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordComparison records one version comparison.
func (m *AppMetrics) RecordComparison(duration time.Duration, totalChanges int, err error) {
	status := statusLabel(err)
	m.ComparisonTotal.WithLabelValues(status).Inc()
	m.ComparisonDuration.WithLabelValues(status).Observe(duration.Seconds())
	if err == nil {
		m.ComparisonChanges.WithLabelValues().Observe(float64(totalChanges))
	}
}

// RecordConflictScan records one conflict scan and its findings.
func (m *AppMetrics) RecordConflictScan(duration time.Duration, riskLevels []string, err error) {
	status := statusLabel(err)
	m.ConflictScanTotal.WithLabelValues(status).Inc()
	m.ConflictScanDuration.WithLabelValues(status).Observe(duration.Seconds())
	for _, level := range riskLevels {
		m.ConflictsFound.WithLabelValues(level).Inc()
	}
}

// RecordCacheAccess records a cache hit or miss.
func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordEventPublished records a lifecycle event publish attempt.
func (m *AppMetrics) RecordEventPublished(topic string, err error) {
	m.EventsPublishedTotal.WithLabelValues(topic, statusLabel(err)).Inc()
}

// SetHealth flips a component health gauge.
func (m *AppMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts an error under its component and code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
