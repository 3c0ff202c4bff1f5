package config

import "time"

// Config is the root configuration structure for touchlint.
type Config struct {
	// Lint controls file discovery, rule selection and parsing.
	Lint LintConfig `yaml:"lint"`

	// Output controls how reports are rendered.
	Output OutputConfig `yaml:"output"`

	// Store controls the findings history database.
	Store StoreConfig `yaml:"store"`

	// Watch controls watch mode and its HTTP endpoint.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LintConfig contains configuration for a lint run.
type LintConfig struct {
	// Extensions lists the file extensions to lint.
	// Default: [".jsx", ".tsx", ".js"]
	Extensions []string `yaml:"extensions"`

	// IgnoreDirs lists directory names that are never descended into,
	// in addition to hidden directories.
	// Default: ["node_modules", "vendor", "build", "dist"]
	IgnoreDirs []string `yaml:"ignore_dirs"`

	// Rules lists the enabled rule names. Empty enables every rule.
	Rules []string `yaml:"rules"`

	// Workers is the number of files linted in parallel.
	// Default: number of CPUs
	Workers int `yaml:"workers"`

	// Strict reports markup that fails to parse instead of skipping it.
	// Default: false
	Strict bool `yaml:"strict"`

	// FailFast stops the run at the first file that cannot be parsed.
	// Default: false
	FailFast bool `yaml:"fail_fast"`

	// MaxFileSize is the largest file, in bytes, that is linted.
	// Default: 10MB
	MaxFileSize int64 `yaml:"max_file_size"`

	// MinVersion is the minimum touchlint version this configuration
	// requires, as a semantic version (e.g. "1.2.0").
	MinVersion string `yaml:"min_version"`
}

// OutputConfig contains report output configuration.
type OutputConfig struct {
	// Format is the report format.
	// Options: "text", "json", "checkstyle"
	// Default: "text"
	Format string `yaml:"format"`

	// ContextLines is the number of source lines shown around a violation
	// in text output. 0 disables the snippet.
	// Default: 0
	ContextLines int `yaml:"context_lines"`

	// Color enables ANSI colors in text output.
	// Default: false
	Color bool `yaml:"color"`
}

// StoreConfig contains findings store configuration.
type StoreConfig struct {
	// Enabled records every run in the store.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: ".touchlint/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how long runs are kept. 0 keeps runs forever.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for pruning old runs in watch
	// mode.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRuns caps the number of stored runs; the oldest are pruned
	// first. 0 means unlimited.
	MaxRuns int64 `yaml:"max_runs"`

	// ArchivePath is a directory where pruned runs are written as JSON
	// before deletion. Empty disables archiving.
	ArchivePath string `yaml:"archive_path"`
}

// WatchConfig contains watch mode configuration.
type WatchConfig struct {
	// Debounce is the quiet period after a file change before re-linting.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// ListenAddress is the address of the HTTP endpoint serving health,
	// metrics and the latest report. Empty disables the endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP endpoint.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "touchlint"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "lint"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for per-file lint
	// duration (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled exports a span per lint run and per file.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "touchlint"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
