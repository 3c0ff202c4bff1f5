package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/evidence/export"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain runs.
	// 0 means keep runs forever (no age pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchivePath is the directory where runs are written as JSON before
	// deletion. Empty disables archiving.
	ArchivePath string

	// MaxRuns is the maximum number of runs to keep.
	// 0 means unlimited.
	MaxRuns int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: config.DefaultStoreRetentionDays,
		PruneSchedule: config.DefaultStorePruneSchedule,
	}
}

// ConfigFromStore maps the store section of the configuration.
func ConfigFromStore(cfg *config.StoreConfig) *Config {
	return &Config{
		RetentionDays: cfg.RetentionDays,
		PruneSchedule: cfg.PruneSchedule,
		ArchivePath:   cfg.ArchivePath,
		MaxRuns:       cfg.MaxRuns,
	}
}

// Pruner enforces retention policies on stored runs.
type Pruner struct {
	storage   evidence.Storage
	config    *Config
	metrics   *metrics.Collector
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a new retention pruner. collector may be nil.
func NewPruner(storage evidence.Storage, cfg *Config, collector *metrics.Collector) *Pruner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  slog.Default().With("component", "evidence.retention"),
		now:     time.Now,
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes runs older than the retention period or exceeding the
// max run count.
//
// Pruning happens in two phases:
// 1. Age-based: Delete runs started more than retention_days ago
// 2. Count-based: If more than max_runs remain, delete the oldest
//
// Returns the total number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		totalDeleted += deleted
		if err != nil {
			p.metrics.RecordPruned(totalDeleted)
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
	}

	if p.config.MaxRuns > 0 {
		deleted, err := p.pruneByCount(ctx)
		totalDeleted += deleted
		if err != nil {
			p.metrics.RecordPruned(totalDeleted)
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
	}

	p.metrics.RecordPruned(totalDeleted)

	if totalDeleted == 0 {
		p.logger.Debug("no runs pruned",
			"retention_days", p.config.RetentionDays,
			"max_runs", p.config.MaxRuns,
		)
	} else {
		p.logger.Info("run history pruned",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_runs", p.config.MaxRuns,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes runs older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	query := &evidence.Query{EndTime: &cutoff}

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	if p.config.ArchivePath != "" {
		runs, err := p.storage.ListRuns(ctx, query)
		if err != nil {
			return 0, evidence.NewRetentionError(p.config.RetentionDays, err)
		}
		if err := p.archive(ctx, runs, "age"); err != nil {
			return 0, evidence.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.Delete(ctx, query)
	if err != nil {
		return 0, evidence.NewRetentionError(p.config.RetentionDays, err)
	}
	return deleted, nil
}

// pruneByCount deletes the oldest runs beyond MaxRuns.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &evidence.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	if count <= p.config.MaxRuns {
		p.logger.Debug("run count within limit",
			"current", count,
			"max", p.config.MaxRuns,
		)
		return 0, nil
	}

	// Newest first, so everything past MaxRuns is excess.
	excess, err := p.storage.ListRuns(ctx, &evidence.Query{
		Offset:    int(p.config.MaxRuns),
		SortOrder: "desc",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}

	p.logger.Info("run count exceeds limit, pruning oldest",
		"current_count", count,
		"max_runs", p.config.MaxRuns,
		"to_delete", len(excess),
	)

	if p.config.ArchivePath != "" {
		if err := p.archive(ctx, excess, "count"); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	var deleted int64
	for _, run := range excess {
		n, err := p.storage.Delete(ctx, &evidence.Query{RunID: run.ID})
		if err != nil {
			return deleted, fmt.Errorf("delete failed: %w", err)
		}
		deleted += n
	}
	return deleted, nil
}

// archive writes runs, with their findings, to a JSON file under
// ArchivePath.
func (p *Pruner) archive(ctx context.Context, runs []*evidence.RunRecord, reason string) error {
	if len(runs) == 0 {
		p.logger.Debug("no runs to archive")
		return nil
	}

	full := make([]*evidence.RunRecord, 0, len(runs))
	for _, run := range runs {
		r, err := p.storage.GetRun(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to load run %s for archiving: %w", run.ID, err)
		}
		full = append(full, r)
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath,
		fmt.Sprintf("runs-%s-%s.json", reason, p.now().UTC().Format("2006-01-02-150405")))
	f, err := os.Create(archiveFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	if err := export.NewJSONExporter(true).Export(ctx, full, f); err != nil {
		return fmt.Errorf("failed to export runs to archive: %w", err)
	}

	p.logger.Info("runs archived",
		"archive_file", archiveFile,
		"run_count", len(full),
	)
	return nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
