// Package config provides configuration management for touchlint.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("touchlint.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("touchlint.yaml")
//
//  3. From an optional file, falling back to defaults when it is missing:
//     cfg, err := config.LoadOrDefault("touchlint.yaml", false)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TOUCHLINT_SECTION_FIELD.
// For example:
//
//   - TOUCHLINT_OUTPUT_FORMAT overrides output.format
//   - TOUCHLINT_LINT_RULES overrides lint.rules (comma-separated)
//   - TOUCHLINT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (Default)
//  2. YAML file values
//  3. Environment variable overrides
//  4. Command-line flags, applied by the CLI
//
// # Example Configuration
//
//	lint:
//	  extensions: [".tsx", ".jsx"]
//	  rules: ["tsx-a11y-touchables"]
//	  min_version: "1.0.0"
//	output:
//	  format: "checkstyle"
//	store:
//	  enabled: true
//	  driver: "sqlite"
//	  path: ".touchlint/history.db"
//	  retention_days: 14
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// # Global Configuration
//
// Initialize stores a process-wide configuration that GetConfig returns.
// Prefer passing *Config explicitly; the singleton exists for the CLI.
package config
