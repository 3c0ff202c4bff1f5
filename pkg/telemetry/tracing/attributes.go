package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanRun  = "lint.run"
	SpanFile = "lint.file"
)

// Attribute keys use the "touchlint.*" namespace.
const (
	AttrRunID      = "touchlint.run_id"
	AttrTrigger    = "touchlint.trigger"
	AttrRules      = "touchlint.rules"
	AttrFiles      = "touchlint.files"
	AttrFile       = "touchlint.file"
	AttrFileSize   = "touchlint.file.size"
	AttrViolations = "touchlint.violations"
	AttrSuppressed = "touchlint.suppressed"
	AttrFailed     = "touchlint.files_failed"
	AttrRule       = "touchlint.rule"
	AttrLine       = "touchlint.line"
	AttrColumn     = "touchlint.column"

	// EventViolation is added to a file span for each reported violation.
	EventViolation = "violation"
)

// RunStartOptions returns the attributes of a run span.
func RunStartOptions(runID, trigger string, rules []string, files int) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrTrigger, trigger),
		attribute.StringSlice(AttrRules, rules),
		attribute.Int(AttrFiles, files),
	)
}

// SetRunResult sets the totals of a finished run.
func SetRunResult(span trace.Span, violations, suppressed, failed int) {
	span.SetAttributes(
		attribute.Int(AttrViolations, violations),
		attribute.Int(AttrSuppressed, suppressed),
		attribute.Int(AttrFailed, failed),
	)
}

// SetFileResult sets the outcome of a linted file.
func SetFileResult(span trace.Span, size, violations, suppressed int) {
	span.SetAttributes(
		attribute.Int(AttrFileSize, size),
		attribute.Int(AttrViolations, violations),
		attribute.Int(AttrSuppressed, suppressed),
	)
}

// AddViolation records a violation as a span event.
func AddViolation(span trace.Span, rule string, line, column int) {
	span.AddEvent(EventViolation, trace.WithAttributes(
		attribute.String(AttrRule, rule),
		attribute.Int(AttrLine, line),
		attribute.Int(AttrColumn, column),
	))
}
