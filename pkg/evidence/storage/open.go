package storage

import (
	"context"
	"fmt"
	"time"

	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
)

// DriverMemory selects MemoryStorage.
const DriverMemory = "memory"

// Open creates the backend selected by cfg.Driver. Every call on the
// returned storage is recorded in collector, which may be nil.
func Open(cfg *config.StoreConfig, collector *metrics.Collector) (evidence.Storage, error) {
	var (
		backend evidence.Storage
		err     error
	)

	switch cfg.Driver {
	case DriverMemory:
		backend = NewMemoryStorage()
	case DriverModernc, DriverCGO, "":
		backend, err = NewSQLiteStorage(&SQLiteConfig{
			Driver:      cfg.Driver,
			Path:        cfg.Path,
			WALMode:     true,
			BusyTimeout: cfg.BusyTimeout,
		})
	default:
		err = evidence.NewStorageError(cfg.Driver, "open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
	if err != nil {
		return nil, err
	}

	return Instrument(backend, collector), nil
}

// Instrument wraps s so that each call records its duration and outcome
// in collector. A nil collector returns s unchanged.
func Instrument(s evidence.Storage, collector *metrics.Collector) evidence.Storage {
	if collector == nil {
		return s
	}
	return &instrumented{next: s, metrics: collector}
}

type instrumented struct {
	next    evidence.Storage
	metrics *metrics.Collector
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.metrics.RecordStoreOperation(op, time.Since(start), err)
}

func (i *instrumented) SaveRun(ctx context.Context, run *evidence.RunRecord) error {
	start := time.Now()
	err := i.next.SaveRun(ctx, run)
	i.observe("save", start, err)
	return err
}

func (i *instrumented) GetRun(ctx context.Context, id string) (*evidence.RunRecord, error) {
	start := time.Now()
	run, err := i.next.GetRun(ctx, id)
	i.observe("get", start, err)
	return run, err
}

func (i *instrumented) ListRuns(ctx context.Context, query *evidence.Query) ([]*evidence.RunRecord, error) {
	start := time.Now()
	runs, err := i.next.ListRuns(ctx, query)
	i.observe("list", start, err)
	return runs, err
}

func (i *instrumented) Findings(ctx context.Context, query *evidence.Query) ([]*evidence.FindingRecord, error) {
	start := time.Now()
	findings, err := i.next.Findings(ctx, query)
	i.observe("findings", start, err)
	return findings, err
}

func (i *instrumented) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	start := time.Now()
	n, err := i.next.Count(ctx, query)
	i.observe("count", start, err)
	return n, err
}

func (i *instrumented) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	start := time.Now()
	n, err := i.next.Delete(ctx, query)
	i.observe("delete", start, err)
	return n, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
