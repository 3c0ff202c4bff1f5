package evidence

import (
	"context"
	"io"
	"time"
)

// RunRecord is the stored summary of a single lint run.
type RunRecord struct {
	// Identity
	ID      string `json:"id"`      // UUID v4, shared with the lint report
	Trigger string `json:"trigger"` // "cli" or "watch"
	Version string `json:"version"` // touchlint version that produced the run

	// Timestamps
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`

	// Scope
	Rules []string `json:"rules"` // Enabled rule names

	// Totals
	FilesChecked    int `json:"files_checked"`
	FilesFailed     int `json:"files_failed"`
	ViolationCount  int `json:"violation_count"`
	SuppressedCount int `json:"suppressed_count"`

	// Findings holds the reported violations. ListRuns leaves it empty;
	// GetRun fills it.
	Findings []*FindingRecord `json:"findings,omitempty"`
}

// FindingRecord is one stored violation.
type FindingRecord struct {
	RunID      string `json:"run_id"`
	Rule       string `json:"rule"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`

	// Fingerprint identifies the same finding across runs. It hashes the
	// rule, file, position and message.
	Fingerprint string `json:"fingerprint"`
}

// Query defines filter parameters for run and finding lookups.
type Query struct {
	// Time range, applied to the run start time
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive start time
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive end time

	// Run filters
	RunID   string `json:"run_id,omitempty"`
	Trigger string `json:"trigger,omitempty"`

	// Finding filters; ignored by ListRuns, Count and Delete
	Rule string `json:"rule,omitempty"`
	File string `json:"file,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return
	Offset int `json:"offset,omitempty"` // Skip N records

	// Sorting by run start time
	SortOrder string `json:"sort_order,omitempty"` // "asc", "desc"
}

// Storage defines the interface for run history backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// SaveRun persists a run and its findings atomically. Saving a run
	// whose ID already exists is an error.
	SaveRun(ctx context.Context, run *RunRecord) error

	// GetRun returns the run with the given ID including its findings.
	// Returns ErrNotFound if no such run exists.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns the runs matching the query without findings,
	// newest first unless SortOrder is "asc".
	ListRuns(ctx context.Context, query *Query) ([]*RunRecord, error)

	// Findings returns the findings of the runs matching the query,
	// ordered by run, file and position.
	Findings(ctx context.Context, query *Query) ([]*FindingRecord, error)

	// Count returns the number of runs matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes the runs matching the query and their findings.
	// Returns the number of runs deleted.
	// Used for retention policy enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}

// Exporter defines the interface for exporting runs to various formats.
type Exporter interface {
	// Export writes runs to the provided writer in the exporter's format.
	Export(ctx context.Context, runs []*RunRecord, w io.Writer) error
}
