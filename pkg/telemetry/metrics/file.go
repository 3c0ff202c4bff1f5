package metrics

import (
	"time"

	"touchlint-hq/touchlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// File lint outcomes used as the status label.
const (
	StatusClean      = "clean"
	StatusViolations = "violations"
	StatusError      = "error"
	StatusSkipped    = "skipped"
)

// FileMetrics tracks metrics related to linting individual files.
//
// Metrics:
//   - touchlint_lint_files_total: Files processed by outcome
//   - touchlint_lint_file_duration_seconds: Parse and rule time per file
//   - touchlint_lint_file_bytes: Size of linted files
type FileMetrics struct {
	filesTotal   *prometheus.CounterVec
	fileDuration prometheus.Histogram
	fileBytes    prometheus.Histogram
}

// NewFileMetrics creates and registers file metrics with the provided registry.
func NewFileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FileMetrics {
	fm := &FileMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of files processed by outcome",
			},
			[]string{"status"},
		),

		fileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_duration_seconds",
				Help:      "Time spent parsing and checking a file in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		fileBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_bytes",
				Help:      "Size of linted files in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
		),
	}

	registry.MustRegister(
		fm.filesTotal,
		fm.fileDuration,
		fm.fileBytes,
	)

	return fm
}

// RecordFile records one processed file.
func (fm *FileMetrics) RecordFile(status string, duration time.Duration, size int) {
	fm.filesTotal.WithLabelValues(status).Inc()
	if status == StatusSkipped {
		return
	}
	fm.fileDuration.Observe(duration.Seconds())
	fm.fileBytes.Observe(float64(size))
}
