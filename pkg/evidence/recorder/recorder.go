package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/lint/engine"
)

// Config contains configuration for the run recorder.
type Config struct {
	// Enabled enables recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 16
	AsyncBuffer int

	// WriteTimeout bounds a single storage write, and how long Record
	// waits for room in the buffer.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Version is stored with every run.
	Version string

	// BaseDir makes stored file paths relative. Empty keeps paths as
	// reported.
	BaseDir string

	// MaxFieldLength truncates messages and suggestions. 0 disables
	// truncation.
	// Default: 500
	MaxFieldLength int
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		AsyncBuffer:    16,
		WriteTimeout:   5 * time.Second,
		MaxFieldLength: 500,
	}
}

// Recorder stores lint reports in the run history. Writes happen on a
// background goroutine so that watch mode never blocks on the database.
type Recorder struct {
	storage evidence.Storage
	config  *Config
	runs    chan *evidence.RunRecord
	wg      sync.WaitGroup
	done    chan struct{}
	close   sync.Once
	logger  *slog.Logger
}

// NewRecorder creates a new recorder writing to storage.
func NewRecorder(storage evidence.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 16
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		runs:    make(chan *evidence.RunRecord, config.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "evidence.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("run recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record converts report into a run record and enqueues it for writing.
// It returns without waiting for the write.
func (r *Recorder) Record(ctx context.Context, report *engine.Report) error {
	if !r.config.Enabled || report == nil {
		return nil
	}

	run := r.BuildRun(report)

	select {
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping run", "run_id", run.ID)
		return evidence.NewRecorderError(run.ID, context.Canceled)
	default:
	}

	select {
	case r.runs <- run:
		r.logger.Debug("run enqueued for writing",
			"run_id", run.ID,
			"findings", len(run.Findings),
		)
		return nil
	case <-ctx.Done():
		return evidence.NewRecorderError(run.ID, ctx.Err())
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("run channel full, dropping run",
			"run_id", run.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return evidence.NewRecorderError(run.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping run", "run_id", run.ID)
		return evidence.NewRecorderError(run.ID, context.Canceled)
	}
}

// BuildRun converts a lint report into a run record with fingerprinted
// findings.
func (r *Recorder) BuildRun(report *engine.Report) *evidence.RunRecord {
	id := report.RunID.String()
	run := &evidence.RunRecord{
		ID:              id,
		Trigger:         report.Trigger,
		Version:         r.config.Version,
		StartedAt:       report.StartedAt,
		FinishedAt:      report.StartedAt.Add(report.Duration),
		Duration:        report.Duration,
		Rules:           append([]string(nil), report.Rules...),
		FilesChecked:    len(report.Files),
		FilesFailed:     report.ErrorCount(),
		ViolationCount:  report.ViolationCount(),
		SuppressedCount: report.SuppressedCount(),
	}

	for _, v := range report.Violations() {
		file := RelativePath(r.config.BaseDir, v.Location.File)
		message := TruncateString(v.Message, r.config.MaxFieldLength)
		run.Findings = append(run.Findings, &evidence.FindingRecord{
			RunID:       id,
			Rule:        v.Rule,
			File:        file,
			Line:        v.Location.Line,
			Column:      v.Location.Column,
			Message:     message,
			Suggestion:  TruncateString(v.Suggestion, r.config.MaxFieldLength),
			Fingerprint: Fingerprint(v.Rule, file, v.Location.Line, v.Location.Column, message),
		})
	}

	return run
}

// Close drains pending runs and waits for them to be written. It is safe
// to call more than once.
func (r *Recorder) Close() error {
	r.close.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.logger.Debug("run recorder shut down")
	})
	return nil
}

// worker drains the run channel and writes runs to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case run := <-r.runs:
			r.write(run)

		case <-r.done:
			for {
				select {
				case run := <-r.runs:
					r.write(run)
				default:
					return
				}
			}
		}
	}
}

// write stores a single run.
func (r *Recorder) write(run *evidence.RunRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.SaveRun(ctx, run); err != nil {
		r.logger.Error("failed to store run",
			"run_id", run.ID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)
	r.logger.Debug("run recorded",
		"run_id", run.ID,
		"findings", len(run.Findings),
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow run write",
			"run_id", run.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
