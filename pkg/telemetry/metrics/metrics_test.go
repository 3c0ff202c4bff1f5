package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "lint",
		DurationBuckets: []float64{0.001, 0.01, 0.1, 1},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_AppliesDefaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("Expected default namespace and subsystem, got %q/%q", cfg.Namespace, cfg.Subsystem)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("Expected default duration buckets")
	}
}

func TestCollector_RecordFile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		status   string
		duration time.Duration
		size     int
	}{
		{StatusClean, time.Millisecond, 100},
		{StatusViolations, 2 * time.Millisecond, 2048},
		{StatusViolations, 3 * time.Millisecond, 4096},
		{StatusError, time.Millisecond, 10},
		{StatusSkipped, 0, 0},
	}
	for _, tt := range tests {
		collector.RecordFile(tt.status, tt.duration, tt.size)
	}

	if got := testutil.ToFloat64(collector.fileMetrics.filesTotal.WithLabelValues(StatusViolations)); got != 2 {
		t.Errorf("Expected 2 files with violations, got %f", got)
	}
	if got := testutil.ToFloat64(collector.fileMetrics.filesTotal.WithLabelValues(StatusSkipped)); got != 1 {
		t.Errorf("Expected 1 skipped file, got %f", got)
	}
	if got := testutil.ToFloat64(collector.fileMetrics.filesTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("Expected 1 failed file, got %f", got)
	}
}

func TestCollector_RuleMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordViolations("tsx-a11y-touchables", 2)
	collector.RecordViolations("tsx-a11y-touchables", 1)
	collector.RecordViolations("accessible-touchable", 0)
	collector.RecordSuppressed("accessible-touchable", 4)

	if got := testutil.ToFloat64(collector.ruleMetrics.violationsTotal.WithLabelValues("tsx-a11y-touchables")); got != 3 {
		t.Errorf("Expected 3 violations, got %f", got)
	}
	if got := testutil.CollectAndCount(collector.ruleMetrics.violationsTotal); got != 1 {
		t.Errorf("Expected zero counts to create no series, got %d series", got)
	}
	if got := testutil.ToFloat64(collector.ruleMetrics.suppressedTotal.WithLabelValues("accessible-touchable")); got != 4 {
		t.Errorf("Expected 4 suppressed, got %f", got)
	}
}

func TestCollector_RuleCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordViolations("accessible-touchable", 1)
	collector.RecordViolations("tsx-a11y-touchables", 1)

	if got := testutil.ToFloat64(collector.ruleMetrics.violationsTotal.WithLabelValues(OtherRule)); got != 1 {
		t.Errorf("Expected overflow to be recorded as %q, got %f", OtherRule, got)
	}
}

func TestCollector_RecordRun(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	finished := time.Unix(1700000000, 0)

	collector.RecordRun("cli", time.Second, 10, 4, finished)
	collector.RecordRun("watch", time.Second, 3, 1, finished.Add(time.Minute))

	if got := testutil.ToFloat64(collector.runMetrics.runsTotal.WithLabelValues("cli")); got != 1 {
		t.Errorf("Expected 1 cli run, got %f", got)
	}
	if got := testutil.ToFloat64(collector.runMetrics.lastRunViolations); got != 1 {
		t.Errorf("Expected last run violations 1, got %f", got)
	}
	if got := testutil.ToFloat64(collector.runMetrics.lastRunFiles); got != 3 {
		t.Errorf("Expected last run files 3, got %f", got)
	}
	if got := testutil.ToFloat64(collector.runMetrics.lastRunTimestamp); got != 1700000060 {
		t.Errorf("Expected last run timestamp 1700000060, got %f", got)
	}
}

func TestCollector_StoreMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordStoreOperation("save_run", time.Millisecond, nil)
	collector.RecordStoreOperation("save_run", time.Millisecond, errors.New("disk full"))
	collector.RecordPruned(3)

	if got := testutil.ToFloat64(collector.storeMetrics.operationsTotal.WithLabelValues("save_run", "error")); got != 1 {
		t.Errorf("Expected 1 failed save, got %f", got)
	}
	if got := testutil.ToFloat64(collector.storeMetrics.prunedTotal); got != 3 {
		t.Errorf("Expected 3 pruned runs, got %f", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordFile(StatusClean, time.Millisecond, 1)
	collector.RecordViolations("accessible-touchable", 1)
	collector.RecordRun("cli", time.Second, 1, 1, time.Now())

	if got := testutil.ToFloat64(collector.ruleMetrics.violationsTotal.WithLabelValues("accessible-touchable")); got != 0 {
		t.Errorf("Expected no violations recorded while disabled, got %f", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	// These should not panic
	collector.RecordFile(StatusClean, time.Millisecond, 1)
	collector.RecordViolations("accessible-touchable", 1)
	collector.RecordSuppressed("accessible-touchable", 1)
	collector.RecordRun("cli", time.Second, 1, 1, time.Now())
	collector.RecordStoreOperation("save_run", time.Millisecond, nil)
	collector.RecordPruned(1)
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for _, label := range []string{"label1", "label2", "label3"} {
		if !limiter.Allow(label) {
			t.Errorf("Expected %s to be allowed", label)
		}
	}
	if limiter.Allow("label4") {
		t.Error("Expected fourth label to be rejected")
	}
	if !limiter.Allow("label1") {
		t.Error("Expected existing label to be allowed")
	}
	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordViolations("tsx-a11y-touchables", 2)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `test_lint_violations_total{rule="tsx-a11y-touchables"} 2`
	if !strings.Contains(string(body), want) {
		t.Errorf("Expected metrics output to contain %q, got:\n%s", want, body)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				collector.RecordFile(StatusViolations, time.Millisecond, 10)
				collector.RecordViolations("accessible-touchable", 1)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	count := testutil.ToFloat64(collector.ruleMetrics.violationsTotal.WithLabelValues("accessible-touchable"))
	if count != 1000 {
		t.Errorf("Expected 1000 violations, got %f", count)
	}
}
