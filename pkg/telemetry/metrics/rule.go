package metrics

import (
	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks findings per rule.
//
// Metrics:
//   - touchlint_lint_violations_total: Violations reported by rule
//   - touchlint_lint_suppressed_total: Violations silenced by directives
type RuleMetrics struct {
	violationsTotal *prometheus.CounterVec
	suppressedTotal *prometheus.CounterVec
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of violations reported by rule",
			},
			[]string{"rule"},
		),

		suppressedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "suppressed_total",
				Help:      "Total number of violations suppressed by directives, by rule",
			},
			[]string{"rule"},
		),
	}

	registry.MustRegister(
		rm.violationsTotal,
		rm.suppressedTotal,
	)

	return rm
}

// RecordViolations adds n violations for rule.
func (rm *RuleMetrics) RecordViolations(rule string, n int) {
	rm.violationsTotal.WithLabelValues(rule).Add(float64(n))
}

// RecordSuppressed adds n suppressed violations for rule.
func (rm *RuleMetrics) RecordSuppressed(rule string, n int) {
	rm.suppressedTotal.WithLabelValues(rule).Add(float64(n))
}
