package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"touchlint-hq/touchlint/pkg/cli"
	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/evidence/recorder"
	"touchlint-hq/touchlint/pkg/evidence/storage"
	"touchlint-hq/touchlint/pkg/lint/engine"
	"touchlint-hq/touchlint/pkg/lint/rules"
	"touchlint-hq/touchlint/pkg/telemetry/logging"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
	"touchlint-hq/touchlint/pkg/telemetry/tracing"
)

// appLogger is installed by setup before any command runs.
var appLogger = logging.NewNop()

// newCollector returns the metrics collector, or nil when metrics are
// disabled.
func newCollector(cfg *config.Config) *metrics.Collector {
	if !cfg.Telemetry.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
}

// newTracer creates the tracer. Callers shut it down to flush spans.
func newTracer(cfg *config.Config) (*tracing.Tracer, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	return tracer, nil
}

// shutdownTracer flushes pending spans.
func shutdownTracer(tracer *tracing.Tracer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracer.Shutdown(ctx); err != nil {
		appLogger.Warn("failed to flush traces", "error", err)
	}
}

// openStore opens the run history store.
func openStore(cfg *config.Config, collector *metrics.Collector) (evidence.Storage, error) {
	store, err := storage.Open(&cfg.Store, collector)
	if err != nil {
		return nil, cli.NewCommandError("store", fmt.Errorf("failed to open run history: %w", err))
	}
	return store, nil
}

// newRecorder creates a recorder storing file paths relative to the
// working directory.
func newRecorder(store evidence.Storage) *recorder.Recorder {
	rc := recorder.DefaultConfig()
	rc.Version = Version
	if wd, err := os.Getwd(); err == nil {
		rc.BaseDir = wd
	}
	return recorder.NewRecorder(store, rc)
}

// newEngine creates a lint engine from the lint configuration.
func newEngine(opts engine.Options, collector *metrics.Collector) (*engine.Engine, error) {
	eng, err := engine.New(rules.DefaultRegistry(), opts, appLogger, collector)
	if err != nil {
		return nil, cli.NewConfigError("lint.rules", err.Error())
	}
	return eng, nil
}

// discover expands patterns with the lint configuration.
func discover(cfg *config.Config, patterns []string) ([]string, error) {
	return engine.Discover(patterns, engine.DiscoverOptions{
		Extensions: cfg.Lint.Extensions,
		IgnoreDirs: cfg.Lint.IgnoreDirs,
	})
}
