/*
Package server provides the HTTP endpoint served by watch mode.

Routes:

	GET /healthz                      liveness probe
	GET /readyz                       readiness probe, 503 when a check fails
	GET /version                      build version
	GET /metrics                      Prometheus metrics (configurable path)
	GET /api/v1/report                summary of the latest lint run
	GET /api/v1/runs                  stored runs, newest first
	GET /api/v1/runs/{id}             one stored run with its findings
	GET /api/v1/runs/{id}/findings    findings of a run, filterable by rule and file

The history routes accept limit, offset, order (asc or desc), trigger,
since and until (RFC 3339). They answer 404 when the run history store is
disabled.

Usage:

	srv := server.New(server.Options{
	    ListenAddress:   cfg.Watch.ListenAddress,
	    ShutdownTimeout: cfg.Watch.ShutdownTimeout,
	    MetricsPath:     cfg.Telemetry.Metrics.Path,
	    Collector:       collector,
	    Store:           store,
	})
	go srv.Start(ctx)

	report, _ := eng.Run(ctx, paths)
	srv.SetReport(report)
*/
package server
