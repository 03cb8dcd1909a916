package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

func newTestCollector(t *testing.T) Collector {
	t.Helper()
	c, err := NewCollector(CollectorConfig{Namespace: "lexintel", Subsystem: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c Collector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewCollectorRequiresNamespace(t *testing.T) {
	_, err := NewCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRegisterAndScrapeCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("things_total", "Things counted", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	out := scrape(t, c)
	assert.Contains(t, out, `lexintel_test_things_total{kind="a"} 3`)
}

func TestRegisterSameNameReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dup_total", "Duplicate", "kind")
	second := c.RegisterCounter("dup_total", "Duplicate", "kind")

	first.WithLabelValues("x").Inc()
	second.WithLabelValues("x").Inc()

	out := scrape(t, c)
	assert.Contains(t, out, `lexintel_test_dup_total{kind="x"} 2`)
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)

	g := c.RegisterGauge("depth", "Depth", "queue")
	g.WithLabelValues("segmentation").Set(4)
	g.WithLabelValues("segmentation").Dec()

	h := c.RegisterHistogram("latency_seconds", "Latency", nil, "op")
	h.WithLabelValues("diff").Observe(0.2)

	out := scrape(t, c)
	assert.Contains(t, out, `lexintel_test_depth{queue="segmentation"} 3`)
	assert.Contains(t, out, `lexintel_test_latency_seconds_count{op="diff"} 1`)
}

func TestTimerObservesElapsed(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "Timed", nil, "op")

	timer := NewTimer(h.WithLabelValues("scan"))
	time.Sleep(5 * time.Millisecond)
	timer.ObserveDuration()

	out := scrape(t, c)
	assert.Contains(t, out, `lexintel_test_timed_seconds_count{op="scan"} 1`)
}

func TestTimerNilHistogramIsNoop(t *testing.T) {
	timer := NewTimer(nil)
	assert.NotPanics(t, timer.ObserveDuration)
}

func TestAppMetricsRecorders(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest(http.MethodGet, "/api/v1/documents", 200, 40*time.Millisecond)
	m.RecordSegmentation(2*time.Second, 120, nil)
	m.RecordSegmentation(time.Second, 0, assert.AnError)
	m.RecordEmbedding(300*time.Millisecond, nil)
	m.RecordComparison(800*time.Millisecond, 14, nil)
	m.RecordConflictScan(3*time.Second, []string{"tinggi", "rendah"}, nil)
	m.RecordCacheAccess("comparison", true)
	m.RecordCacheAccess("comparison", false)
	m.RecordEventPublished("version.segmented", nil)
	m.SetHealth("postgres", true)
	m.RecordError("ingestion", "LEX_003")

	out := scrape(t, c)
	assert.Contains(t, out, `lexintel_test_http_requests_total{method="GET",path="/api/v1/documents",status_code="200"} 1`)
	assert.Contains(t, out, `lexintel_test_segmentation_total{status="success"} 1`)
	assert.Contains(t, out, `lexintel_test_segmentation_total{status="failure"} 1`)
	assert.Contains(t, out, `lexintel_test_conflicts_found_total{risk_level="tinggi"} 1`)
	assert.Contains(t, out, `lexintel_test_cache_hits_total{cache="comparison"} 1`)
	assert.Contains(t, out, `lexintel_test_cache_misses_total{cache="comparison"} 1`)
	assert.Contains(t, out, `lexintel_test_events_published_total{status="success",topic="version.segmented"} 1`)
	assert.Contains(t, out, `lexintel_test_health_check_status{component="postgres"} 1`)
	assert.Contains(t, out, `lexintel_test_errors_total{code="LEX_003",component="ingestion"} 1`)
}

func TestProcessMetricsOptIn(t *testing.T) {
	c, err := NewCollector(CollectorConfig{Namespace: "lexintel", EnableProcessMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	out := scrape(t, c)
	assert.Contains(t, out, "process_cpu_seconds_total")
}
