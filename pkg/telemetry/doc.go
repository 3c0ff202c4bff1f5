// Package telemetry groups the observability packages of touchlint.
//
// # Components
//
//   - logging: structured slog logging with run and file context
//   - metrics: Prometheus counters and histograms for runs, files, rules
//     and the history store
//   - tracing: OpenTelemetry spans per run and per file
//   - health: liveness and readiness checks served in watch mode
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.Config{
//	    Level:  cfg.Telemetry.Logging.Level,
//	    Format: cfg.Telemetry.Logging.Format,
//	})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	eng, err := engine.New(rules.DefaultRegistry(), engine.Options{
//	    Tracer: tracer.Tracer(),
//	}, logger, collector)
//
// A nil collector disables metrics, and a disabled tracing configuration
// yields a noop tracer, so the engine never checks whether telemetry is
// on.
package telemetry
