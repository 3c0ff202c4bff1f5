package metrics

import (
	"time"

	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks the findings history store.
//
// Metrics:
//   - touchlint_lint_store_operations_total: Store calls by operation and status
//   - touchlint_lint_store_operation_duration_seconds: Store call latency
//   - touchlint_lint_store_pruned_runs_total: Runs removed by retention
type StoreMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	prunedTotal       prometheus.Counter
}

// NewStoreMetrics creates and registers store metrics with the provided registry.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_operations_total",
				Help:      "Total number of store operations by operation and status",
			},
			[]string{"operation", "status"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_operation_duration_seconds",
				Help:      "Duration of store operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			},
			[]string{"operation"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_pruned_runs_total",
				Help:      "Total number of runs removed by retention",
			},
		),
	}

	registry.MustRegister(
		sm.operationsTotal,
		sm.operationDuration,
		sm.prunedTotal,
	)

	return sm
}

// RecordOperation records a store call.
func (sm *StoreMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	sm.operationsTotal.WithLabelValues(operation, status).Inc()
	sm.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPruned adds n pruned runs.
func (sm *StoreMetrics) RecordPruned(n int64) {
	sm.prunedTotal.Add(float64(n))
}
