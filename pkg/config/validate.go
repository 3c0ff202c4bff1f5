package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
	"golang.org/x/mod/semver"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "output.format").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateLint(cfg *LintConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Extensions) == 0 {
		errs = append(errs, FieldError{
			Field:   "lint.extensions",
			Message: "at least one extension is required",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("lint.extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with '.'", ext),
			})
		}
	}

	for i, dir := range cfg.IgnoreDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("lint.ignore_dirs[%d]", i),
				Message: fmt.Sprintf("%q must be a single directory name", dir),
			})
		}
	}

	if cfg.Workers <= 0 {
		errs = append(errs, FieldError{
			Field:   "lint.workers",
			Message: "must be positive",
		})
	}

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "lint.max_file_size",
			Message: "must be positive",
		})
	}

	if cfg.MinVersion != "" && !semver.IsValid(canonicalVersion(cfg.MinVersion)) {
		errs = append(errs, FieldError{
			Field:   "lint.min_version",
			Message: fmt.Sprintf("%q is not a semantic version", cfg.MinVersion),
		})
	}

	return errs
}

func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	validFormats := map[string]bool{
		"text":       true,
		"json":       true,
		"checkstyle": true,
	}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format %q (must be 'text', 'json', or 'checkstyle')", cfg.Format),
		})
	}

	if cfg.ContextLines < 0 {
		errs = append(errs, FieldError{
			Field:   "output.context_lines",
			Message: "must be non-negative",
		})
	}

	return errs
}

func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	validDrivers := map[string]bool{
		"sqlite":  true,
		"sqlite3": true,
		"memory":  true,
	}
	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "store.driver",
			Message: fmt.Sprintf("invalid driver %q (must be 'sqlite', 'sqlite3', or 'memory')", cfg.Driver),
		})
	}

	if cfg.Enabled && cfg.Driver != "memory" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "store.path",
			Message: "path is required when the store is enabled",
		})
	}

	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "store.busy_timeout",
			Message: "must be non-negative",
		})
	}

	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "store.retention_days",
			Message: "must be non-negative (0 keeps runs forever)",
		})
	}

	if cfg.MaxRuns < 0 {
		errs = append(errs, FieldError{
			Field:   "store.max_runs",
			Message: "must be non-negative (0 means unlimited)",
		})
	}

	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "store.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "must be non-negative",
		})
	}

	if cfg.ListenAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.listen_address",
				Message: fmt.Sprintf("invalid address %q: %v", cfg.ListenAddress, err),
			})
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "watch.shutdown_timeout",
			Message: "must be positive",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be 'debug', 'info', 'warn', or 'error')", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{
		"json":    true,
		"text":    true,
		"console": true,
	}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be 'json', 'text', or 'console')", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "must start with '/'",
			})
		}
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "namespace is required when metrics are enabled",
			})
		}
	}

	if cfg.Tracing.Enabled {
		errs = append(errs, validateTracing(&cfg.Tracing)...)
	}

	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}

func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sampler {
	case "always", "never":
	case "ratio":
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", cfg.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be 'always', 'never', or 'ratio')", cfg.Sampler),
		})
	}

	if cfg.Exporter != "otlp" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("unsupported exporter %q (must be 'otlp')", cfg.Exporter),
		})
	}
	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

// CheckMinVersion reports an error when current is older than the
// lint.min_version the configuration requires. Development builds whose
// version is not a semantic version always pass.
func (c *Config) CheckMinVersion(current string) error {
	if c.Lint.MinVersion == "" {
		return nil
	}
	have := canonicalVersion(current)
	if !semver.IsValid(have) {
		return nil
	}
	want := canonicalVersion(c.Lint.MinVersion)
	if semver.Compare(have, want) < 0 {
		return fmt.Errorf("configuration requires touchlint %s or newer, running %s", want, have)
	}
	return nil
}

// canonicalVersion adds the "v" prefix semver expects.
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
