package export

import (
	"context"
	"encoding/json"
	"io"

	"touchlint-hq/touchlint/pkg/evidence"
)

// JSONExporter exports runs to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes runs to w as a JSON array. Findings attached to the runs
// are included.
func (e *JSONExporter) Export(ctx context.Context, runs []*evidence.RunRecord, w io.Writer) error {
	if runs == nil {
		runs = []*evidence.RunRecord{}
	}
	if err := e.encode(runs, w); err != nil {
		return evidence.NewExportError("json", len(runs), err)
	}
	return nil
}

// ExportFindings writes findings to w as a JSON array.
func (e *JSONExporter) ExportFindings(ctx context.Context, findings []*evidence.FindingRecord, w io.Writer) error {
	if findings == nil {
		findings = []*evidence.FindingRecord{}
	}
	if err := e.encode(findings, w); err != nil {
		return evidence.NewExportError("json", len(findings), err)
	}
	return nil
}

func (e *JSONExporter) encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
