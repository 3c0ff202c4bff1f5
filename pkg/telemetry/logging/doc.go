// Package logging provides structured logging for touchlint.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs and file paths
//   - Configurable log levels (debug, info, warn, error)
//
// Logs go to stderr by default so that lint reports on stdout can be piped.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "lint finished", "files", 12, "violations", 3)
package logging
