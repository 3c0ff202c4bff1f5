// Package retention prunes the run history.
//
// Two limits apply, in order:
//
//   - RetentionDays removes runs that started longer ago than the period
//   - MaxRuns keeps only the newest runs
//
// Both are optional; zero disables a limit. When ArchivePath is set,
// pruned runs are written there as JSON, with their findings, before
// deletion.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, retention.ConfigFromStore(&cfg.Store), collector)
//
//	// One-off, as in "touchlint history prune"
//	deleted, err := pruner.Prune(ctx)
//
//	// Scheduled, while watching
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
package retention
