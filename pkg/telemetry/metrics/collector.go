package metrics

import (
	"sync"
	"time"

	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherRule is the rule label used once the cardinality limit is reached.
const OtherRule = "other"

// Collector is the entry point for all Prometheus metrics in touchlint. It
// owns a private registry so that several collectors can coexist in tests.
//
// Every Record method is a no-op when metrics are disabled or the collector
// is nil, so callers never need to guard their calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	fileMetrics  *FileMetrics
	ruleMetrics  *RuleMetrics
	runMetrics   *RunMetrics
	storeMetrics *StoreMetrics

	// Rule names come from configuration and plugins; bound them.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "touchlint",
//		Subsystem: "lint",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets()
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(100),
	}

	c.fileMetrics = NewFileMetrics(cfg, registry)
	c.ruleMetrics = NewRuleMetrics(cfg, registry)
	c.runMetrics = NewRunMetrics(cfg, registry)
	c.storeMetrics = NewStoreMetrics(cfg, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordFile records one processed file.
//
// Parameters:
//   - status: StatusClean, StatusViolations, StatusError or StatusSkipped
//   - duration: Time spent parsing and checking the file
//   - size: File size in bytes
func (c *Collector) RecordFile(status string, duration time.Duration, size int) {
	if !c.enabled() {
		return
	}

	c.fileMetrics.RecordFile(status, duration, size)
}

// RecordViolations adds n violations reported by rule.
func (c *Collector) RecordViolations(rule string, n int) {
	if !c.enabled() || n <= 0 {
		return
	}

	c.ruleMetrics.RecordViolations(c.ruleLabel(rule), n)
}

// RecordSuppressed adds n violations of rule silenced by directives.
func (c *Collector) RecordSuppressed(rule string, n int) {
	if !c.enabled() || n <= 0 {
		return
	}

	c.ruleMetrics.RecordSuppressed(c.ruleLabel(rule), n)
}

// RecordRun records a finished lint run.
//
// Example:
//
//	collector.RecordRun("cli", report.Duration, len(report.Files), report.ViolationCount(), time.Now())
func (c *Collector) RecordRun(trigger string, duration time.Duration, files, violations int, finished time.Time) {
	if !c.enabled() {
		return
	}

	c.runMetrics.RecordRun(trigger, duration, files, violations, finished)
}

// RecordStoreOperation records a store call and its outcome.
func (c *Collector) RecordStoreOperation(operation string, duration time.Duration, err error) {
	if !c.enabled() {
		return
	}

	c.storeMetrics.RecordOperation(operation, duration, err)
}

// RecordPruned adds n runs removed by retention.
func (c *Collector) RecordPruned(n int64) {
	if !c.enabled() || n <= 0 {
		return
	}

	c.storeMetrics.RecordPruned(n)
}

func (c *Collector) ruleLabel(rule string) string {
	if !c.cardinalityLimiter.Allow(rule) {
		return OtherRule
	}
	return rule
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used. Known values are always
// allowed; new values are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
