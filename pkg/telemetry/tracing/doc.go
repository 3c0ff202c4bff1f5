// Package tracing exports OpenTelemetry spans for lint runs.
//
// Each run is a "lint.run" span with one "lint.file" child per file.
// File spans carry a "violation" event per reported violation, so a slow
// or noisy file can be found in any OTLP backend. Spans go to an OTLP gRPC
// collector:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    sampler: ratio
//	    sample_ratio: 0.25
//	    otlp:
//	      insecure: true
//
// When tracing is disabled, New returns a noop tracer and span creation
// costs next to nothing.
//
// In watch mode, Middleware continues W3C trace context from incoming
// HTTP requests.
package tracing
