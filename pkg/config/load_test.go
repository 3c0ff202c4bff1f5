package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "touchlint.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
lint:
  extensions: [".tsx"]
  rules: ["tsx-a11y-touchables"]
  workers: 4
  strict: true
  min_version: "0.1.0"

output:
  format: "checkstyle"
  context_lines: 2

store:
  enabled: true
  driver: "sqlite3"
  path: "./history.db"
  retention_days: 7

watch:
  debounce: "500ms"

telemetry:
  logging:
    level: "debug"
    format: "json"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Lint.Extensions) != 1 || cfg.Lint.Extensions[0] != ".tsx" {
		t.Errorf("expected extensions [.tsx], got %v", cfg.Lint.Extensions)
	}
	if cfg.Lint.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Lint.Workers)
	}
	if !cfg.Lint.Strict {
		t.Error("expected strict mode")
	}
	if cfg.Output.Format != "checkstyle" {
		t.Errorf("expected output format checkstyle, got %q", cfg.Output.Format)
	}
	if cfg.Store.Driver != "sqlite3" || cfg.Store.RetentionDays != 7 {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to be disabled by the file")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_OmittedFieldsKeepDefaults(t *testing.T) {
	path := writeConfig(t, "output:\n  format: json\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to stay enabled")
	}
	if cfg.Watch.ListenAddress != DefaultWatchListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultWatchListenAddress, cfg.Watch.ListenAddress)
	}
	if cfg.Store.RetentionDays != DefaultStoreRetentionDays {
		t.Errorf("expected retention %d, got %d", DefaultStoreRetentionDays, cfg.Store.RetentionDays)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "lint: [unclosed",
			wantErr: "failed to parse",
		},
		{
			name:    "invalid format",
			content: "output:\n  format: xml\n",
			wantErr: "output.format",
		},
		{
			name:    "invalid min version",
			content: "lint:\n  min_version: one\n",
			wantErr: "lint.min_version",
		},
		{
			name:    "invalid prune schedule",
			content: "store:\n  prune_schedule: \"every day\"\n",
			wantErr: "store.prune_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "output:\n  format: text\n")

	t.Setenv("TOUCHLINT_OUTPUT_FORMAT", "json")
	t.Setenv("TOUCHLINT_LINT_RULES", "accessible-touchable, tsx-a11y-touchables")
	t.Setenv("TOUCHLINT_LINT_WORKERS", "3")
	t.Setenv("TOUCHLINT_STORE_ENABLED", "true")
	t.Setenv("TOUCHLINT_WATCH_DEBOUNCE", "1s")
	t.Setenv("TOUCHLINT_WATCH_LISTEN_ADDRESS", "")
	t.Setenv("TOUCHLINT_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("expected output format json, got %q", cfg.Output.Format)
	}
	if len(cfg.Lint.Rules) != 2 || cfg.Lint.Rules[1] != "tsx-a11y-touchables" {
		t.Errorf("unexpected rules %v", cfg.Lint.Rules)
	}
	if cfg.Lint.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Lint.Workers)
	}
	if !cfg.Store.Enabled {
		t.Error("expected store to be enabled")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.ListenAddress != "" {
		t.Errorf("expected empty listen address, got %q", cfg.Watch.ListenAddress)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to be disabled")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("TOUCHLINT_OUTPUT_FORMAT", "yaml")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		t.Fatal("expected validation error after override")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "touchlint.yaml")

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("implicit missing file should fall back to defaults: %v", err)
	}
	if cfg.Output.Format != DefaultOutputFormat {
		t.Errorf("expected default output format, got %q", cfg.Output.Format)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("explicit missing file should be an error")
	}

	t.Setenv("TOUCHLINT_OUTPUT_FORMAT", "checkstyle")
	cfg, err = LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "checkstyle" {
		t.Errorf("expected env override to apply to defaults, got %q", cfg.Output.Format)
	}
}
