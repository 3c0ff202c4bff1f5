package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Lint.Workers = 0
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
	}{
		{"no extensions", func(c *Config) { c.Lint.Extensions = nil }, "lint.extensions"},
		{"extension without dot", func(c *Config) { c.Lint.Extensions = []string{"tsx"} }, "lint.extensions[0]"},
		{"ignore dir with slash", func(c *Config) { c.Lint.IgnoreDirs = []string{"a/b"} }, "lint.ignore_dirs[0]"},
		{"negative workers", func(c *Config) { c.Lint.Workers = -1 }, "lint.workers"},
		{"zero max file size", func(c *Config) { c.Lint.MaxFileSize = 0 }, "lint.max_file_size"},
		{"bad min version", func(c *Config) { c.Lint.MinVersion = "1.x" }, "lint.min_version"},
		{"bad output format", func(c *Config) { c.Output.Format = "sarif" }, "output.format"},
		{"negative context lines", func(c *Config) { c.Output.ContextLines = -2 }, "output.context_lines"},
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }, "store.driver"},
		{"enabled store without path", func(c *Config) { c.Store.Enabled = true; c.Store.Path = "" }, "store.path"},
		{"negative retention", func(c *Config) { c.Store.RetentionDays = -1 }, "store.retention_days"},
		{"negative max runs", func(c *Config) { c.Store.MaxRuns = -5 }, "store.max_runs"},
		{"bad prune schedule", func(c *Config) { c.Store.PruneSchedule = "* *" }, "store.prune_schedule"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"bad listen address", func(c *Config) { c.Watch.ListenAddress = "localhost" }, "watch.listen_address"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"metrics path without slash", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"bad tracing sampler", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"tracing ratio out of range", func(c *Config) {
			c.Telemetry.Tracing.Enabled = true
			c.Telemetry.Tracing.Sampler = "ratio"
			c.Telemetry.Tracing.SampleRatio = 1.5
		}, "telemetry.tracing.sample_ratio"},
		{"bad tracing exporter", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Exporter = "zipkin" }, "telemetry.tracing.exporter"},
		{"unsorted buckets", func(c *Config) { c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5} }, "telemetry.metrics.duration_buckets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.errorField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got errors: %v", tt.errorField, verr.Errors)
			}
		})
	}
}

func TestValidate_MemoryStoreNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.Store.Enabled = true
	cfg.Store.Driver = "memory"
	cfg.Store.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("expected memory store without path to be valid, got %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains string
	}{
		{
			name:     "empty errors",
			err:      ValidationError{Errors: []FieldError{}},
			contains: "configuration validation failed",
		},
		{
			name: "single error",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "output.format", Message: "invalid"},
				},
			},
			contains: "output.format",
		},
		{
			name: "multiple errors",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "output.format", Message: "invalid"},
					{Field: "lint.workers", Message: "must be positive"},
				},
			},
			contains: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.contains) {
				t.Errorf("expected error message to contain %q, got: %s", tt.contains, errMsg)
			}
		})
	}
}
