package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override
// configuration fields.
const EnvPrefix = "TOUCHLINT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default, so omitted fields keep their
// default values. The result is validated. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML over the defaults
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Fill anything the file explicitly emptied
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention TOUCHLINT_SECTION_FIELD (e.g., TOUCHLINT_OUTPUT_FORMAT).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfigWithEnvOverrides, except that a
// missing file at an implicit path yields the default configuration with
// environment overrides applied. When explicit is true a missing file is an
// error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format TOUCHLINT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Lint overrides
	if val := os.Getenv("TOUCHLINT_LINT_EXTENSIONS"); val != "" {
		cfg.Lint.Extensions = splitList(val)
	}
	if val := os.Getenv("TOUCHLINT_LINT_IGNORE_DIRS"); val != "" {
		cfg.Lint.IgnoreDirs = splitList(val)
	}
	if val := os.Getenv("TOUCHLINT_LINT_RULES"); val != "" {
		cfg.Lint.Rules = splitList(val)
	}
	if val := os.Getenv("TOUCHLINT_LINT_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Lint.Workers = i
		}
	}
	if val := os.Getenv("TOUCHLINT_LINT_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Lint.Strict = b
		}
	}
	if val := os.Getenv("TOUCHLINT_LINT_FAIL_FAST"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Lint.FailFast = b
		}
	}
	if val := os.Getenv("TOUCHLINT_LINT_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Lint.MaxFileSize = i
		}
	}

	// Output overrides
	if val := os.Getenv("TOUCHLINT_OUTPUT_FORMAT"); val != "" {
		cfg.Output.Format = val
	}
	if val := os.Getenv("TOUCHLINT_OUTPUT_CONTEXT_LINES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Output.ContextLines = i
		}
	}
	if val := os.Getenv("TOUCHLINT_OUTPUT_COLOR"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Output.Color = b
		}
	}

	// Store overrides
	if val := os.Getenv("TOUCHLINT_STORE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Store.Enabled = b
		}
	}
	if val := os.Getenv("TOUCHLINT_STORE_DRIVER"); val != "" {
		cfg.Store.Driver = val
	}
	if val := os.Getenv("TOUCHLINT_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("TOUCHLINT_STORE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.RetentionDays = i
		}
	}
	if val := os.Getenv("TOUCHLINT_STORE_PRUNE_SCHEDULE"); val != "" {
		cfg.Store.PruneSchedule = val
	}
	if val := os.Getenv("TOUCHLINT_STORE_MAX_RUNS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Store.MaxRuns = i
		}
	}
	if val := os.Getenv("TOUCHLINT_STORE_ARCHIVE_PATH"); val != "" {
		cfg.Store.ArchivePath = val
	}

	// Watch overrides
	if val := os.Getenv("TOUCHLINT_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val, ok := os.LookupEnv("TOUCHLINT_WATCH_LISTEN_ADDRESS"); ok {
		cfg.Watch.ListenAddress = val
	}

	// Telemetry overrides
	if val := os.Getenv("TOUCHLINT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("TOUCHLINT_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// splitList splits a comma-separated environment value, dropping empty
// items.
func splitList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
