package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"touchlint-hq/touchlint/pkg/evidence"
)

// CSVExporter exports runs and findings to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

var runHeader = []string{
	"id", "trigger", "version",
	"started_at", "finished_at", "duration_ms",
	"rules",
	"files_checked", "files_failed", "violation_count", "suppressed_count",
}

var findingHeader = []string{
	"run_id", "rule", "file", "line", "column", "message", "suggestion", "fingerprint",
}

// Export writes one row per run. Rule names are joined with ";".
func (e *CSVExporter) Export(ctx context.Context, runs []*evidence.RunRecord, w io.Writer) error {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, runToRow(run))
	}
	if err := e.write(ctx, runHeader, rows, w); err != nil {
		return evidence.NewExportError("csv", len(runs), err)
	}
	return nil
}

// ExportFindings writes one row per finding.
func (e *CSVExporter) ExportFindings(ctx context.Context, findings []*evidence.FindingRecord, w io.Writer) error {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			f.RunID,
			f.Rule,
			f.File,
			strconv.Itoa(f.Line),
			strconv.Itoa(f.Column),
			f.Message,
			f.Suggestion,
			f.Fingerprint,
		})
	}
	if err := e.write(ctx, findingHeader, rows, w); err != nil {
		return evidence.NewExportError("csv", len(findings), err)
	}
	return nil
}

func (e *CSVExporter) write(ctx context.Context, header []string, rows [][]string, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(header); err != nil {
			return err
		}
	}

	for i, row := range rows {
		// Flush periodically so long exports can be cancelled.
		if i > 0 && i%100 == 0 {
			writer.Flush()
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// runToRow converts a run to a CSV row.
func runToRow(run *evidence.RunRecord) []string {
	formatTime := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339Nano)
	}

	return []string{
		run.ID,
		run.Trigger,
		run.Version,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		strconv.FormatInt(run.Duration.Milliseconds(), 10),
		strings.Join(run.Rules, ";"),
		strconv.Itoa(run.FilesChecked),
		strconv.Itoa(run.FilesFailed),
		strconv.Itoa(run.ViolationCount),
		strconv.Itoa(run.SuppressedCount),
	}
}
