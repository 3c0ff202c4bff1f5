package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"touchlint-hq/touchlint/pkg/cli"
	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/evidence/export"
	"touchlint-hq/touchlint/pkg/evidence/query"
	"touchlint-hq/touchlint/pkg/evidence/retention"
)

var historyFlags struct {
	timeRange string
	trigger   string
	rule      string
	file      string
	limit     int
	offset    int
	order     string
	format    string
	exportFmt string
	output    string
	dryRun    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded lint runs",
	Long: `Browse, export and prune the run history database.

Runs are recorded by "touchlint lint --record" and by watch mode when
store.enabled is set.

Subcommands:
  list      - List recorded runs
  show      - Show one run with its findings
  findings  - List findings across runs
  export    - Export runs or findings as JSON or CSV
  prune     - Apply the retention policy now

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-10-01T00:00:00Z/2026-10-18T00:00:00Z"`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Long: `List recorded runs, newest first.

Examples:
  touchlint history list
  touchlint history list --trigger watch --limit 10
  touchlint history list --time-range "2026-10-01T00:00:00Z/2026-10-18T00:00:00Z"`,
	RunE: listRuns,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its findings",
	Args:  cobra.ExactArgs(1),
	RunE:  showRun,
}

var historyFindingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "List findings across runs",
	Long: `List findings of the matching runs.

Examples:
  touchlint history findings --rule accessible-touchable
  touchlint history findings --file src/App.tsx --limit 50`,
	RunE: listFindings,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [runs|findings]",
	Short: "Export runs or findings",
	Long: `Export runs or findings as JSON or CSV.

Examples:
  touchlint history export runs --format csv -o runs.csv
  touchlint history export findings --rule tsx-a11y-touchables --format json`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"runs", "findings"},
	RunE:      exportHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy now",
	Long: `Delete runs older than store.retention_days and the oldest runs beyond
store.max_runs. Deleted runs are archived first when store.archive_path is
set.`,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyFindingsCmd, historyExportCmd, historyPruneCmd)

	for _, c := range []*cobra.Command{historyListCmd, historyFindingsCmd, historyExportCmd} {
		f := c.Flags()
		f.StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
		f.StringVar(&historyFlags.trigger, "trigger", "", "filter by trigger: cli, watch")
		f.IntVar(&historyFlags.limit, "limit", query.DefaultLimit, "max results")
		f.IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
		f.StringVar(&historyFlags.order, "order", "desc", "sort order by start time: asc, desc")
	}
	for _, c := range []*cobra.Command{historyFindingsCmd, historyExportCmd, historyShowCmd} {
		c.Flags().StringVar(&historyFlags.rule, "rule", "", "filter findings by rule")
		c.Flags().StringVar(&historyFlags.file, "file", "", "filter findings by file")
	}
	for _, c := range []*cobra.Command{historyListCmd, historyShowCmd, historyFindingsCmd} {
		c.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	}
	historyExportCmd.Flags().StringVar(&historyFlags.exportFmt, "format", "json", "output format: json, csv")
	historyExportCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")
	historyPruneCmd.Flags().BoolVar(&historyFlags.dryRun, "dry-run", false, "report what would be deleted")
}

// buildQuery assembles and validates the query from the history flags.
func buildQuery() (*evidence.Query, error) {
	q := &evidence.Query{
		Trigger:   historyFlags.trigger,
		Rule:      historyFlags.rule,
		File:      historyFlags.file,
		Limit:     historyFlags.limit,
		Offset:    historyFlags.offset,
		SortOrder: historyFlags.order,
	}

	if historyFlags.timeRange != "" {
		start, end, err := parseTimeRange(historyFlags.timeRange)
		if err != nil {
			return nil, err
		}
		q.StartTime, q.EndTime = &start, &end
	}

	if err := query.Validate(q); err != nil {
		return nil, err
	}
	query.ApplyDefaults(q)
	return q, nil
}

// parseTimeRange parses an RFC 3339 interval "start/end".
func parseTimeRange(s string) (time.Time, time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range format (expected: start/end)")
	}
	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}
	return start, end, nil
}

// withStore opens the history store for the duration of fn.
func withStore(fn func(ctx context.Context, cfg *config.Config, store evidence.Storage) error) error {
	cfg := config.GetConfig()
	store, err := openStore(cfg, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(context.Background(), cfg, store)
}

func listRuns(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, cfg *config.Config, store evidence.Storage) error {
		runs, err := store.ListRuns(ctx, q)
		if err != nil {
			return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
		}
		total, err := store.Count(ctx, q)
		if err != nil {
			return cli.NewCommandError("history", fmt.Errorf("count failed: %w", err))
		}

		out := cmd.OutOrStdout()
		if historyFlags.format == "json" {
			return export.NewJSONExporter(true).Export(ctx, runs, out)
		}
		return printRuns(out, runs, total)
	})
}

func printRuns(out io.Writer, runs []*evidence.RunRecord, total int64) error {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tTRIGGER\tFILES\tVIOLATIONS\tSUPPRESSED\tFAILED\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Trigger,
			run.FilesChecked,
			run.ViolationCount,
			run.SuppressedCount,
			run.FilesFailed,
			run.Duration.Round(time.Millisecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if int64(len(runs)) < total {
		fmt.Fprintf(out, "\nShowing %d of %d runs. Use --limit and --offset for pagination.\n", len(runs), total)
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, store evidence.Storage) error {
		run, err := store.GetRun(ctx, args[0])
		if errors.Is(err, evidence.ErrNotFound) {
			return cli.NewCommandError("history", fmt.Errorf("run %s not found", args[0]))
		}
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		run.Findings = filterFindings(run.Findings)

		out := cmd.OutOrStdout()
		if historyFlags.format == "json" {
			return export.NewJSONExporter(true).Export(ctx, []*evidence.RunRecord{run}, out)
		}

		fmt.Fprintf(out, "Run ID:     %s\n", run.ID)
		fmt.Fprintf(out, "Started:    %s\n", run.StartedAt.Local().Format(time.RFC3339))
		fmt.Fprintf(out, "Duration:   %s\n", run.Duration.Round(time.Millisecond))
		fmt.Fprintf(out, "Trigger:    %s\n", run.Trigger)
		if run.Version != "" {
			fmt.Fprintf(out, "Version:    %s\n", run.Version)
		}
		fmt.Fprintf(out, "Rules:      %s\n", strings.Join(run.Rules, ", "))
		fmt.Fprintf(out, "Files:      %d checked, %d failed\n", run.FilesChecked, run.FilesFailed)
		fmt.Fprintf(out, "Violations: %d (%d suppressed)\n", run.ViolationCount, run.SuppressedCount)

		if len(run.Findings) > 0 {
			fmt.Fprintln(out)
			return printFindings(out, run.Findings, false)
		}
		return nil
	})
}

// filterFindings applies --rule and --file to the findings of one run.
func filterFindings(findings []*evidence.FindingRecord) []*evidence.FindingRecord {
	if historyFlags.rule == "" && historyFlags.file == "" {
		return findings
	}
	var out []*evidence.FindingRecord
	for _, f := range findings {
		if historyFlags.rule != "" && f.Rule != historyFlags.rule {
			continue
		}
		if historyFlags.file != "" && f.File != historyFlags.file {
			continue
		}
		out = append(out, f)
	}
	return out
}

func listFindings(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}

	return withStore(func(ctx context.Context, cfg *config.Config, store evidence.Storage) error {
		findings, err := store.Findings(ctx, q)
		if err != nil {
			return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
		}

		out := cmd.OutOrStdout()
		if historyFlags.format == "json" {
			return export.NewJSONExporter(true).ExportFindings(ctx, findings, out)
		}
		if len(findings) == 0 {
			fmt.Fprintln(out, "No findings.")
			return nil
		}
		return printFindings(out, findings, true)
	})
}

func printFindings(out io.Writer, findings []*evidence.FindingRecord, withRun bool) error {
	for _, f := range findings {
		if withRun {
			fmt.Fprintf(out, "%s  ", f.RunID)
		}
		fmt.Fprintf(out, "%s:%d:%d: %s (%s)\n", f.File, f.Line, f.Column, f.Message, f.Rule)
	}
	return nil
}

func exportHistory(cmd *cobra.Command, args []string) error {
	what := "runs"
	if len(args) == 1 {
		what = args[0]
	}

	q, err := buildQuery()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if historyFlags.output != "" {
		f, err := os.Create(historyFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return withStore(func(ctx context.Context, cfg *config.Config, store evidence.Storage) error {
		switch historyFlags.exportFmt {
		case "json":
			exp := export.NewJSONExporter(true)
			if what == "findings" {
				return exportFindings(ctx, store, q, exp, out)
			}
			return exportRuns(ctx, store, q, exp, out)
		case "csv":
			exp := export.NewCSVExporter(true)
			if what == "findings" {
				return exportFindings(ctx, store, q, exp, out)
			}
			return exportRuns(ctx, store, q, exp, out)
		default:
			return fmt.Errorf("unsupported format: %s (supported: json, csv)", historyFlags.exportFmt)
		}
	})
}

type findingsExporter interface {
	ExportFindings(ctx context.Context, findings []*evidence.FindingRecord, w io.Writer) error
}

func exportRuns(ctx context.Context, store evidence.Storage, q *evidence.Query, exp evidence.Exporter, out io.Writer) error {
	runs, err := store.ListRuns(ctx, q)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}
	return exp.Export(ctx, runs, out)
}

func exportFindings(ctx context.Context, store evidence.Storage, q *evidence.Query, exp findingsExporter, out io.Writer) error {
	findings, err := store.Findings(ctx, q)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}
	return exp.ExportFindings(ctx, findings, out)
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, store evidence.Storage) error {
		rc := retention.ConfigFromStore(&cfg.Store)
		out := cmd.OutOrStdout()

		if historyFlags.dryRun {
			aged, excess, err := planPrune(ctx, store, rc, time.Now())
			if err != nil {
				return cli.NewCommandError("history", err)
			}
			fmt.Fprintf(out, "%d runs past retention, %d runs over the limit would be deleted\n", aged, excess)
			return nil
		}

		deleted, err := retention.NewPruner(store, rc, nil).Prune(ctx)
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		fmt.Fprintf(out, "✓ Pruned %d runs\n", deleted)
		return nil
	})
}

// planPrune counts the runs a prune at now would delete by age and by
// count.
func planPrune(ctx context.Context, store evidence.Storage, rc *retention.Config, now time.Time) (aged, excess int64, err error) {
	total, err := store.Count(ctx, &evidence.Query{})
	if err != nil {
		return 0, 0, err
	}
	if rc.RetentionDays > 0 {
		cutoff := now.AddDate(0, 0, -rc.RetentionDays)
		aged, err = store.Count(ctx, &evidence.Query{EndTime: &cutoff})
		if err != nil {
			return 0, 0, err
		}
	}
	if rc.MaxRuns > 0 {
		excess = max(0, total-aged-rc.MaxRuns)
	}
	return aged, excess, nil
}
