package metrics

import (
	"time"

	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks whole lint runs.
//
// Metrics:
//   - touchlint_lint_runs_total: Runs by trigger ("cli", "watch")
//   - touchlint_lint_run_duration_seconds: Wall time of a run
//   - touchlint_lint_last_run_violations: Violations found by the latest run
//   - touchlint_lint_last_run_files: Files checked by the latest run
//   - touchlint_lint_last_run_timestamp_seconds: Unix time the latest run finished
type RunMetrics struct {
	runsTotal         *prometheus.CounterVec
	runDuration       prometheus.Histogram
	lastRunViolations prometheus.Gauge
	lastRunFiles      prometheus.Gauge
	lastRunTimestamp  prometheus.Gauge
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of lint runs by trigger",
			},
			[]string{"trigger"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a lint run in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
		),

		lastRunViolations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_violations",
				Help:      "Number of violations found by the latest run",
			},
		),

		lastRunFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_files",
				Help:      "Number of files checked by the latest run",
			},
		),

		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time at which the latest run finished",
			},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.runDuration,
		rm.lastRunViolations,
		rm.lastRunFiles,
		rm.lastRunTimestamp,
	)

	return rm
}

// RecordRun records a finished run.
func (rm *RunMetrics) RecordRun(trigger string, duration time.Duration, files, violations int, finished time.Time) {
	rm.runsTotal.WithLabelValues(trigger).Inc()
	rm.runDuration.Observe(duration.Seconds())
	rm.lastRunFiles.Set(float64(files))
	rm.lastRunViolations.Set(float64(violations))
	rm.lastRunTimestamp.Set(float64(finished.Unix()))
}
