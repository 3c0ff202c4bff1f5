// Package metrics provides Prometheus metrics collection for touchlint.
//
// # Metrics Categories
//
//   - File Metrics: files processed by outcome, per-file duration and size
//   - Rule Metrics: violations and suppressions by rule
//   - Run Metrics: run count, duration and the latest run's totals
//   - Store Metrics: history store calls and retention pruning
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordFile(metrics.StatusViolations, 3*time.Millisecond, 2048)
//	collector.RecordViolations("tsx-a11y-touchables", 2)
//	collector.RecordRun("cli", time.Second, 120, 2, time.Now())
//
//	http.Handle("/metrics", collector.Handler())
//
// A nil *Collector and a collector built from a disabled configuration
// both accept every Record call and do nothing.
package metrics
