package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/jsx/ast"
	"touchlint-hq/touchlint/pkg/jsx/parser"
	"touchlint-hq/touchlint/pkg/lint/directive"
	"touchlint-hq/touchlint/pkg/lint/rules"
	"touchlint-hq/touchlint/pkg/telemetry/logging"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
	"touchlint-hq/touchlint/pkg/telemetry/tracing"
)

// Run triggers, recorded in metrics and the findings store.
const (
	TriggerCLI   = "cli"
	TriggerWatch = "watch"
)

// Options configures an Engine.
type Options struct {
	// Rules selects rules by name. Empty selects every registered rule.
	Rules []string

	// Workers bounds the number of files linted in parallel.
	// Default: number of CPUs
	Workers int

	// Strict makes malformed markup a syntax error.
	Strict bool

	// FailFast stops the run at the first file that cannot be linted.
	FailFast bool

	// MaxFileSize is the largest file that is read, in bytes.
	// Default: 10MB
	MaxFileSize int64

	// IgnoreDirectives reports violations even when a directive silences
	// them.
	IgnoreDirectives bool

	// Trigger labels runs in metrics.
	// Default: TriggerCLI
	Trigger string

	// Progress is called after each file with the number of files done
	// and the total. It may be called from several goroutines.
	Progress func(done, total int)

	// Tracer creates a span per run and per file.
	// Default: noop
	Tracer trace.Tracer
}

// OptionsFromConfig maps the lint section of the configuration to Options.
func OptionsFromConfig(cfg *config.LintConfig) Options {
	return Options{
		Rules:       cfg.Rules,
		Workers:     cfg.Workers,
		Strict:      cfg.Strict,
		FailFast:    cfg.FailFast,
		MaxFileSize: cfg.MaxFileSize,
	}
}

// Engine lints files with a fixed set of rules. It is safe for concurrent
// use.
type Engine struct {
	rules   []rules.Rule
	names   []string
	parser  *parser.Parser
	opts    Options
	logger  *logging.Logger
	metrics *metrics.Collector
}

// New creates an engine using the rules of registry selected by
// opts.Rules. Unknown rule names are an error. logger and collector may be
// nil.
func New(registry *rules.Registry, opts Options, logger *logging.Logger, collector *metrics.Collector) (*Engine, error) {
	selected, err := registry.Select(opts.Rules)
	if err != nil {
		return nil, err
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = config.DefaultLintMaxFileSize
	}
	if opts.Trigger == "" {
		opts.Trigger = TriggerCLI
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(tracing.InstrumentationName)
	}

	names := make([]string, len(selected))
	for i, r := range selected {
		names[i] = r.Metadata().Name
	}

	return &Engine{
		rules:   selected,
		names:   names,
		parser:  parser.NewParser().WithMaxFileSize(opts.MaxFileSize).WithStrictMode(opts.Strict),
		opts:    opts,
		logger:  logger.WithComponent("engine"),
		metrics: collector,
	}, nil
}

// Rules returns the enabled rules, sorted by name.
func (e *Engine) Rules() []rules.Rule {
	return e.rules
}

// LintFile reads, parses and checks the file at path.
func (e *Engine) LintFile(ctx context.Context, path string) FileResult {
	ctx, span := e.opts.Tracer.Start(ctx, tracing.SpanFile,
		trace.WithAttributes(attribute.String(tracing.AttrFile, path)))
	defer span.End()

	ctx = logging.WithFile(ctx, path)
	start := time.Now()

	var res FileResult
	if file, err := e.parser.Parse(path); err != nil {
		res = e.failed(ctx, path, err, start)
	} else {
		res = e.check(ctx, file, start)
	}

	tracing.SetFileResult(span, res.Size, len(res.Violations), res.Suppressed)
	for _, v := range res.Violations {
		tracing.AddViolation(span, v.Rule, v.Location.Line, v.Location.Column)
	}
	tracing.SetStatus(span, res.Err)
	return res
}

// LintSource parses and checks src as if it were the file at path.
func (e *Engine) LintSource(path string, src []byte) FileResult {
	ctx := logging.WithFile(context.Background(), path)
	start := time.Now()

	file, err := e.parser.ParseBytes(src, path)
	if err != nil {
		return e.failed(ctx, path, err, start)
	}
	return e.check(ctx, file, start)
}

func (e *Engine) failed(ctx context.Context, path string, err error, start time.Time) FileResult {
	res := FileResult{
		Path:     path,
		Err:      err,
		Duration: time.Since(start),
	}
	e.logger.WarnContext(ctx, "failed to lint file", "error", err)
	e.metrics.RecordFile(res.Status(), res.Duration, 0)
	return res
}

func (e *Engine) check(ctx context.Context, file *ast.File, start time.Time) FileResult {
	found := rules.ApplyAll(e.rules, file)

	kept := found
	if !e.opts.IgnoreDirectives {
		set, err := directive.Collect(file)
		if err != nil {
			e.logger.WarnContext(ctx, "ignoring malformed directive", "error", err)
		}
		kept = set.Filter(found)
	}

	res := FileResult{
		Path:       file.Path,
		Violations: kept,
		Suppressed: len(found) - len(kept),
		Size:       len(file.Source),
		Duration:   time.Since(start),
	}

	e.record(found, kept)
	e.metrics.RecordFile(res.Status(), res.Duration, res.Size)
	e.logger.DebugContext(ctx, "linted file",
		"violations", len(res.Violations),
		"suppressed", res.Suppressed,
		"duration", res.Duration,
	)
	return res
}

// record updates the per-rule counters. found and kept are both sorted and
// kept is a subsequence of found.
func (e *Engine) record(found, kept []rules.Violation) {
	if e.metrics == nil {
		return
	}
	total := make(map[string]int)
	for _, v := range found {
		total[v.Rule]++
	}
	reported := make(map[string]int)
	for _, v := range kept {
		reported[v.Rule]++
	}
	for rule, n := range total {
		e.metrics.RecordViolations(rule, reported[rule])
		e.metrics.RecordSuppressed(rule, n-reported[rule])
	}
}

// Run lints paths in parallel and returns the report. The error is non-nil
// when ctx is cancelled or when FailFast stopped the run; the partial
// report is returned in both cases.
func (e *Engine) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{
		RunID:     uuid.New(),
		Trigger:   e.opts.Trigger,
		StartedAt: time.Now(),
		Rules:     e.names,
	}
	ctx = logging.WithRunID(ctx, report.RunID.String())

	ctx, span := e.opts.Tracer.Start(ctx, tracing.SpanRun,
		tracing.RunStartOptions(report.RunID.String(), e.opts.Trigger, e.names, len(paths)))
	defer span.End()

	e.logger.InfoContext(ctx, "lint run started",
		"files", len(paths),
		"rules", len(e.rules),
		"workers", e.opts.Workers,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]FileResult, len(paths))
	done := make([]bool, len(paths))

	var (
		wg        sync.WaitGroup
		failOnce  sync.Once
		failErr   error
		completed atomic.Int64
	)

	jobs := make(chan int)
	workers := min(e.opts.Workers, len(paths))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				res := e.LintFile(runCtx, paths[i])
				results[i] = res
				done[i] = true
				if e.opts.Progress != nil {
					e.opts.Progress(int(completed.Add(1)), len(paths))
				}
				if res.Err != nil && e.opts.FailFast {
					failOnce.Do(func() {
						failErr = res.Err
						cancel()
					})
				}
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i, ok := range done {
		if ok {
			report.Files = append(report.Files, results[i])
		}
	}
	sortFiles(report.Files)
	report.Duration = time.Since(report.StartedAt)

	e.metrics.RecordRun(e.opts.Trigger, report.Duration, len(report.Files), report.ViolationCount(), time.Now())
	e.logger.InfoContext(ctx, "lint run finished",
		"files", len(report.Files),
		"violations", report.ViolationCount(),
		"errors", report.ErrorCount(),
		"suppressed", report.SuppressedCount(),
		"duration", report.Duration,
	)

	var err error
	switch {
	case failErr != nil:
		err = fmt.Errorf("lint stopped at first failure: %w", failErr)
	case ctx.Err() != nil:
		err = ctx.Err()
	}

	tracing.SetRunResult(span, report.ViolationCount(), report.SuppressedCount(), report.ErrorCount())
	tracing.SetStatus(span, err)
	return report, err
}
