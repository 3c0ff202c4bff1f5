// Package storage provides storage backends for the lint run history.
//
// # Storage Backends
//
//   - SQLite: Embedded database, through either the pure-Go
//     modernc.org/sqlite driver ("sqlite") or the cgo
//     github.com/mattn/go-sqlite3 driver ("sqlite3")
//   - Memory: In-process storage for the "memory" driver and tests
//
// # SQLite Backend
//
// The SQLite backend provides durable storage with:
//
//   - WAL mode for concurrent readers while the watcher records runs
//   - A single connection, which SQLite needs for safe writes anyway
//   - Indexes on start time, trigger, rule and fingerprint
//   - Busy timeout for handling locks held by another process
//
// # Basic Usage
//
//	store, err := storage.Open(&cfg.Store, collector)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	runs, err := store.ListRuns(ctx, &evidence.Query{Limit: 10})
//
// Open wraps the backend so that each call is recorded in the
// store_operations_total and store_operation_duration_seconds metrics.
package storage
