package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Lint defaults
	DefaultLintStrict      = false
	DefaultLintFailFast    = false
	DefaultLintMaxFileSize = int64(10 * 1024 * 1024) // 10MB

	// Output defaults
	DefaultOutputFormat       = "text"
	DefaultOutputContextLines = 0
	DefaultOutputColor        = false

	// Store defaults
	DefaultStoreEnabled       = false
	DefaultStoreDriver        = "sqlite"
	DefaultStorePath          = ".touchlint/history.db"
	DefaultStoreBusyTimeout   = 5 * time.Second
	DefaultStoreRetentionDays = 30
	DefaultStorePruneSchedule = "0 3 * * *"

	// Watch defaults
	DefaultWatchDebounce        = 200 * time.Millisecond
	DefaultWatchListenAddress   = "127.0.0.1:9464"
	DefaultWatchShutdownTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "warn"
	DefaultLoggingFormat    = "console"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "touchlint"
	DefaultMetricsSubsystem = "lint"

	// Tracing defaults
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "touchlint"
	DefaultTracingOTLPTimeout = 10 * time.Second
)

// DefaultExtensions are the file extensions linted by default.
func DefaultExtensions() []string {
	return []string{".jsx", ".tsx", ".js"}
}

// DefaultIgnoreDirs are the directory names skipped by default.
func DefaultIgnoreDirs() []string {
	return []string{"node_modules", "vendor", "build", "dist"}
}

// DefaultDurationBuckets are the per-file duration histogram buckets.
func DefaultDurationBuckets() []float64 {
	return []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
}

// Default returns a configuration with every field set to its default.
// Boolean fields that default to true can only be told apart from an
// explicit false when the file is decoded on top of this value, which is
// what LoadConfig does.
func Default() *Config {
	cfg := &Config{
		Lint: LintConfig{
			Strict:   DefaultLintStrict,
			FailFast: DefaultLintFailFast,
		},
		Output: OutputConfig{
			ContextLines: DefaultOutputContextLines,
			Color:        DefaultOutputColor,
		},
		Store: StoreConfig{
			Enabled:       DefaultStoreEnabled,
			RetentionDays: DefaultStoreRetentionDays,
		},
		Watch: WatchConfig{
			ListenAddress: DefaultWatchListenAddress,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default. Boolean
// fields are left alone.
func ApplyDefaults(cfg *Config) {
	// Lint defaults
	if len(cfg.Lint.Extensions) == 0 {
		cfg.Lint.Extensions = DefaultExtensions()
	}
	if cfg.Lint.IgnoreDirs == nil {
		cfg.Lint.IgnoreDirs = DefaultIgnoreDirs()
	}
	if cfg.Lint.Workers == 0 {
		cfg.Lint.Workers = runtime.NumCPU()
	}
	if cfg.Lint.MaxFileSize == 0 {
		cfg.Lint.MaxFileSize = DefaultLintMaxFileSize
	}

	// Output defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}

	// Store defaults
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}
	if cfg.Store.PruneSchedule == "" {
		cfg.Store.PruneSchedule = DefaultStorePruneSchedule
	}
	// RetentionDays has a meaningful zero (keep forever); only negative
	// values are replaced.
	if cfg.Store.RetentionDays < 0 {
		cfg.Store.RetentionDays = DefaultStoreRetentionDays
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Watch.ShutdownTimeout == 0 {
		cfg.Watch.ShutdownTimeout = DefaultWatchShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultTracingOTLPTimeout
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = DefaultDurationBuckets()
	}
}
