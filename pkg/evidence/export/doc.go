// Package export writes run history in JSON or CSV.
//
// JSON keeps the full structure, including findings attached to a run.
// CSV flattens runs into one row each; findings are exported separately
// with ExportFindings.
//
//	exporter := export.NewCSVExporter(true)
//	err := exporter.ExportFindings(ctx, findings, os.Stdout)
package export
