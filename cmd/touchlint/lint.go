package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"touchlint-hq/touchlint/pkg/cli"
	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/lint/engine"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
	"touchlint-hq/touchlint/pkg/vcs"
)

var lintFlags struct {
	format           string
	rules            []string
	strict           bool
	failFast         bool
	workers          int
	contextLines     int
	color            bool
	ignoreDirectives bool
	output           string
	progress         bool
	record           bool
	changedSince     string
}

var lintCmd = &cobra.Command{
	Use:   "lint [patterns...]",
	Short: "Lint JSX and TSX files",
	Long: `Lint JSX and TSX files for inaccessible touchables.

Patterns are files, directories, or a directory followed by "/..." to
descend recursively. Without patterns the current directory is linted
recursively.

The exit code is 0 when the run is clean, 1 when violations were found or
files could not be parsed, and 2 on usage or configuration errors.

Violations can be silenced with directives:
  // touchlint:disable-next-line accessible-touchable
  // tslint:disable-next-line tsx-a11y-touchables

Examples:
  # Lint everything under src
  touchlint lint src/...

  # Run a single rule
  touchlint lint --rules accessible-touchable ./...

  # Checkstyle output for CI
  touchlint lint --format checkstyle -o touchlint.xml ./...

  # Show two lines of source around each violation
  touchlint lint --context 2 --color src/...

  # Record the run in the history database
  touchlint lint --record ./...

  # Only files changed since the main branch, including uncommitted edits
  touchlint lint --changed-since main ./...`,
	RunE: lintFiles,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	f := lintCmd.Flags()
	f.StringVarP(&lintFlags.format, "format", "f", config.DefaultOutputFormat, "output format: text, json, checkstyle")
	f.StringSliceVarP(&lintFlags.rules, "rules", "r", nil, "rules to run (default: all)")
	f.BoolVar(&lintFlags.strict, "strict", false, "report markup that fails to parse")
	f.BoolVar(&lintFlags.failFast, "fail-fast", false, "stop at the first file that cannot be linted")
	f.IntVarP(&lintFlags.workers, "workers", "j", 0, "files linted in parallel (default: number of CPUs)")
	f.IntVar(&lintFlags.contextLines, "context", 0, "source lines shown around each violation")
	f.BoolVar(&lintFlags.color, "color", false, "colorize text output")
	f.BoolVar(&lintFlags.ignoreDirectives, "no-directives", false, "report violations silenced by directives")
	f.StringVarP(&lintFlags.output, "output", "o", "", "output file (default: stdout)")
	f.BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&lintFlags.record, "record", false, "record the run in the history database")
	f.StringVar(&lintFlags.changedSince, "changed-since", "", "only lint files changed since this git revision")
}

// applyLintFlags copies the flags the user set over the configuration.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = lintFlags.format
	}
	if flags.Changed("rules") {
		cfg.Lint.Rules = lintFlags.rules
	}
	if flags.Changed("strict") {
		cfg.Lint.Strict = lintFlags.strict
	}
	if flags.Changed("fail-fast") {
		cfg.Lint.FailFast = lintFlags.failFast
	}
	if flags.Changed("workers") {
		cfg.Lint.Workers = lintFlags.workers
	}
	if flags.Changed("context") {
		cfg.Output.ContextLines = lintFlags.contextLines
	}
	if flags.Changed("color") {
		cfg.Output.Color = lintFlags.color
	}
	if flags.Changed("record") {
		cfg.Store.Enabled = lintFlags.record
	}
}

func lintFiles(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	applyLintFlags(cmd, cfg)

	format, err := cli.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	paths, err := discover(cfg, args)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if len(paths) == 0 {
		return cli.NewCommandError("lint", fmt.Errorf("no files matching %v", cfg.Lint.Extensions))
	}

	if lintFlags.changedSince != "" {
		paths, err = changedPaths(paths, lintFlags.changedSince)
		if err != nil {
			return cli.NewCommandError("lint", err)
		}
		if len(paths) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No files changed since %s.\n", lintFlags.changedSince)
			return nil
		}
	}

	collector := newCollector(cfg)
	opts := engine.OptionsFromConfig(&cfg.Lint)
	opts.IgnoreDirectives = lintFlags.ignoreDirectives

	var progress *cli.SimpleProgress
	if lintFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		opts.Progress = cli.ProgressFunc(progress)
	}

	tracer, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracer(tracer)
	opts.Tracer = tracer.Tracer()

	eng, err := newEngine(opts, collector)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	report, runErr := eng.Run(ctx, paths)
	if progress != nil {
		progress.Finish()
	}
	if report == nil {
		return cli.NewCommandError("lint", runErr)
	}

	if err := writeReport(cmd, format, cfg, report); err != nil {
		return cli.NewCommandError("lint", err)
	}

	if cfg.Store.Enabled {
		if err := recordRun(ctx, cfg, collector, report); err != nil {
			appLogger.Warn("failed to record run", "run_id", report.RunID.String(), "error", err)
		}
	}

	if runErr != nil {
		return cli.NewCommandError("lint", runErr)
	}
	if !report.Clean() {
		return cli.NewCommandError("lint", cli.ErrViolations)
	}
	return nil
}

// changedPaths keeps the paths that changed since rev in the git
// repository holding the working directory.
func changedPaths(paths []string, rev string) ([]string, error) {
	repo, err := vcs.Open(".")
	if err != nil {
		return nil, err
	}
	changed, err := repo.ChangedSince(context.Background(), rev)
	if err != nil {
		return nil, err
	}

	kept := vcs.Filter(paths, changed)
	appLogger.Debug("filtered files by git changes",
		"since", rev,
		"repository", repo.Root(),
		"changed", len(changed),
		"kept", len(kept),
	)
	return kept, nil
}

// writeReport writes report to --output or stdout.
func writeReport(cmd *cobra.Command, format cli.OutputFormat, cfg *config.Config, report *engine.Report) error {
	var out io.Writer = cmd.OutOrStdout()
	if lintFlags.output != "" {
		f, err := os.Create(lintFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return cli.NewFormatter(format, &cfg.Output).Format(out, report)
}

// recordRun stores report in the run history and waits for the write.
func recordRun(ctx context.Context, cfg *config.Config, collector *metrics.Collector, report *engine.Report) error {
	store, err := openStore(cfg, collector)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := newRecorder(store)
	if err := rec.Record(ctx, report); err != nil {
		rec.Close()
		return err
	}
	return rec.Close()
}
