package config

import (
	"path/filepath"
	"testing"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })

	path := writeConfig(t, "telemetry:\n  logging:\n    level: info\n")
	if err := Initialize(path, true); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("expected logging level info, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestInitialize_MissingExplicitFile(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(nil)

	if err := Initialize(filepath.Join(t.TempDir(), "nope.yaml"), true); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
	if GetConfig() != nil {
		t.Error("config should stay unset after a failed initialization")
	}
}

func TestReloadConfig(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(Default())

	bad := writeConfig(t, "output:\n  format: html\n")
	if err := ReloadConfig(bad); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig().Output.Format != DefaultOutputFormat {
		t.Error("failed reload must keep the previous configuration")
	}

	good := writeConfig(t, "output:\n  format: json\n")
	if err := ReloadConfig(good); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	if GetConfig().Output.Format != "json" {
		t.Errorf("expected reloaded format json, got %q", GetConfig().Output.Format)
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	t.Cleanup(func() { SetConfig(nil) })
	SetConfig(nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when configuration is not initialized")
		}
	}()
	MustGetConfig()
}
