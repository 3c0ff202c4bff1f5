// Package evidence keeps the history of lint runs. Every run is stored as
// an immutable record with its findings so that trends can be queried,
// exported and pruned later.
//
// # Architecture
//
// The history system consists of three layers:
//
//  1. Recorder - Converts lint reports into run records, asynchronously
//  2. Storage Backend - Persists runs (SQLite or in-memory)
//  3. Query and Export - Retrieves, filters and exports runs
//
// # Recording Flow
//
//	engine.Run → *engine.Report
//	     ↓
//	Recorder (async)
//	     ↓
//	Build RunRecord, fingerprint findings
//	     ↓
//	Storage Backend (SQLite, WAL mode)
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:    ".touchlint/history.db",
//	    WALMode: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := recorder.NewRecorder(store, recorder.DefaultConfig(), logger, collector)
//	defer rec.Close()
//
//	rec.Record(ctx, report)
//
// # Querying
//
//	runs, err := store.ListRuns(ctx, &evidence.Query{Trigger: "watch", Limit: 20})
//	findings, err := store.Findings(ctx, &evidence.Query{RunID: runs[0].ID, Rule: "accessible-touchable"})
//
// # Retention
//
// Runs older than the retention period, or beyond the configured maximum
// count, are removed by the retention pruner on a cron schedule:
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *",
//	}, logger, collector)
//	pruner.Start(ctx)
//	defer pruner.Stop()
package evidence
