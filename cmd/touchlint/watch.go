package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"touchlint-hq/touchlint/pkg/cli"
	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/evidence/recorder"
	"touchlint-hq/touchlint/pkg/evidence/retention"
	"touchlint-hq/touchlint/pkg/lint/engine"
	"touchlint-hq/touchlint/pkg/server"
	"touchlint-hq/touchlint/pkg/telemetry/health"
	"touchlint-hq/touchlint/pkg/watch"
)

var watchFlags struct {
	listenAddress string
	noServer      bool
	rules         []string
	strict        bool
	record        bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [patterns...]",
	Short: "Re-lint on every change",
	Long: `Lint once, then re-lint whenever a watched source file changes.

Changes are debounced so that saving many files triggers a single run.
Each run prints a text report. Unless disabled, an HTTP endpoint serves:
  /healthz, /readyz     liveness and readiness probes
  /metrics              Prometheus metrics
  /api/v1/report        the latest report as JSON
  /api/v1/runs          recorded runs, when the history store is enabled

When the store is enabled, every run is recorded and old runs are pruned
on the configured schedule.

Examples:
  # Watch the src tree
  touchlint watch src/...

  # Serve on all interfaces
  touchlint watch --listen 0.0.0.0:9464 ./...

  # Record each run in the history database
  touchlint watch --record ./...`,
	RunE: watchFiles,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	f := watchCmd.Flags()
	f.StringVarP(&watchFlags.listenAddress, "listen", "l", "", "override the HTTP listen address")
	f.BoolVar(&watchFlags.noServer, "no-server", false, "do not start the HTTP endpoint")
	f.StringSliceVarP(&watchFlags.rules, "rules", "r", nil, "rules to run (default: all)")
	f.BoolVar(&watchFlags.strict, "strict", false, "report markup that fails to parse")
	f.BoolVar(&watchFlags.record, "record", false, "record every run in the history database")
}

// watchSession holds the components of one watch mode invocation.
type watchSession struct {
	cfg      *config.Config
	patterns []string
	engine   *engine.Engine
	out      io.Writer
	server   *server.Server
	recorder *recorder.Recorder

	mu   sync.Mutex
	last *engine.Report
}

func watchFiles(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Watch.ListenAddress = watchFlags.listenAddress
	}
	if watchFlags.noServer {
		cfg.Watch.ListenAddress = ""
	}
	if flags.Changed("rules") {
		cfg.Lint.Rules = watchFlags.rules
	}
	if flags.Changed("strict") {
		cfg.Lint.Strict = watchFlags.strict
	}
	if flags.Changed("record") {
		cfg.Store.Enabled = watchFlags.record
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	collector := newCollector(cfg)
	opts := engine.OptionsFromConfig(&cfg.Lint)
	opts.Trigger = engine.TriggerWatch
	opts.FailFast = false

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

	s := &watchSession{
		cfg:      cfg,
		patterns: patterns,
		engine:   eng,
		out:      cmd.OutOrStdout(),
	}
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("last_run", s.checkLastRun)

	var store evidence.Storage
	if cfg.Store.Enabled {
		store, err = openStore(cfg, collector)
		if err != nil {
			return err
		}
		defer store.Close()

		s.recorder = newRecorder(store)
		defer s.recorder.Close()

		checker.RegisterCheck("store", func(ctx context.Context) error {
			_, err := store.Count(ctx, &evidence.Query{})
			return err
		})

		pruner := retention.NewPruner(store, retention.ConfigFromStore(&cfg.Store), collector)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewConfigError("store.prune_schedule", err.Error())
		}
		defer pruner.Stop()
	}

	if cfg.Watch.ListenAddress != "" {
		s.server = server.New(server.Options{
			ListenAddress:   cfg.Watch.ListenAddress,
			ShutdownTimeout: cfg.Watch.ShutdownTimeout,
			MetricsPath:     cfg.Telemetry.Metrics.Path,
			Version:         Version,
			Collector:       collector,
			Checker:         checker,
			Store:           store,
			Tracer:          tracer,
			Logger:          appLogger,
		})
		errChan := make(chan error, 1)
		go func() { errChan <- s.server.Start(ctx) }()
		defer func() {
			stop()
			if err := <-errChan; err != nil {
				appLogger.Error("http endpoint failed", "error", err)
			}
		}()
		fmt.Fprintf(s.out, "Serving on http://%s\n", cfg.Watch.ListenAddress)
	}

	fw, err := watch.NewFileWatcher(watch.ConfigFromLint(watchRoots(patterns), &cfg.Lint, &cfg.Watch), appLogger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	if err := s.run(ctx, nil); err != nil {
		return err
	}

	if err := fw.Watch(ctx, s.run); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// run re-discovers the watched files and lints them all. changed is only
// reported; deleted and renamed files are picked up by discovery.
func (s *watchSession) run(ctx context.Context, changed []string) error {
	paths, err := discover(s.cfg, s.patterns)
	if err != nil {
		return err
	}

	report, err := s.engine.Run(ctx, paths)
	if report == nil {
		return err
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	if s.server != nil {
		s.server.SetReport(report)
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, report); err != nil {
			appLogger.Warn("failed to record run", "run_id", report.RunID.String(), "error", err)
		}
	}

	if len(changed) > 0 {
		fmt.Fprintf(s.out, "\n[%s] %s changed\n", time.Now().Format(time.TimeOnly), describeChanges(changed))
	}
	formatter := cli.NewFormatter(cli.FormatText, &s.cfg.Output)
	if ferr := formatter.Format(s.out, report); ferr != nil {
		return ferr
	}
	return err
}

// checkLastRun fails readiness until the first run completes and while
// the last run had files that could not be linted.
func (s *watchSession) checkLastRun(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return fmt.Errorf("no run has completed yet")
	}
	if n := s.last.ErrorCount(); n > 0 {
		return fmt.Errorf("%d files could not be linted", n)
	}
	return nil
}

// watchRoots turns lint patterns into the paths to watch.
func watchRoots(patterns []string) []string {
	roots := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "...")
		if p == "" {
			p = "."
		}
		roots = append(roots, filepath.Clean(p))
	}
	return roots
}

func describeChanges(changed []string) string {
	if len(changed) == 1 {
		return changed[0]
	}
	return fmt.Sprintf("%d files", len(changed))
}
