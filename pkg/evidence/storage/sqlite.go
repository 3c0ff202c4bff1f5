package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"touchlint-hq/touchlint/pkg/evidence"
)

// Supported database/sql driver names.
const (
	// DriverModernc is the pure-Go driver from modernc.org/sqlite.
	DriverModernc = "sqlite"

	// DriverCGO is the cgo driver from github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver selects the database/sql driver, DriverModernc or DriverCGO.
	// Default: DriverModernc
	Driver string

	// Path is the database file path. ":memory:" keeps the database in
	// memory for the lifetime of the storage.
	Path string

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverModernc,
		Path:        ".touchlint/history.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It creates the parent directory, initializes the schema and enables WAL
// mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverCGO {
		return nil, evidence.NewStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "evidence.storage.sqlite")

	if config.Path != ":memory:" {
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, evidence.NewStorageError("sqlite", "open", err)
			}
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "open", err)
	}

	// SQLite allows a single writer; one connection also keeps an
	// in-memory database alive across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite storage initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return evidence.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return evidence.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return evidence.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return evidence.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return evidence.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return evidence.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// SaveRun persists a run and its findings in one transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *evidence.RunRecord) error {
	rules, err := json.Marshal(run.Rules)
	if err != nil {
		return evidence.NewStorageError("sqlite", "save", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return evidence.NewStorageError("sqlite", "save", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, trigger_name, version,
			started_at, finished_at, duration_ns,
			rules,
			files_checked, files_failed, violation_count, suppressed_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Trigger, run.Version,
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(), int64(run.Duration),
		string(rules),
		run.FilesChecked, run.FilesFailed, run.ViolationCount, run.SuppressedCount,
	)
	if err != nil {
		return evidence.NewStorageError("sqlite", "save", err)
	}

	if len(run.Findings) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO findings (run_id, rule, file, line, col, message, suggestion, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return evidence.NewStorageError("sqlite", "save", err)
		}
		defer stmt.Close()

		for _, f := range run.Findings {
			var suggestion any
			if f.Suggestion != "" {
				suggestion = f.Suggestion
			}
			if _, err := stmt.ExecContext(ctx, run.ID, f.Rule, f.File, f.Line, f.Column, f.Message, suggestion, f.Fingerprint); err != nil {
				return evidence.NewStorageError("sqlite", "save", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return evidence.NewStorageError("sqlite", "save", err)
	}
	return nil
}

const runColumns = `r.id, r.trigger_name, r.version, r.started_at, r.finished_at, r.duration_ns,
	r.rules, r.files_checked, r.files_failed, r.violation_count, r.suppressed_count`

// GetRun returns a run with its findings.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*evidence.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs r WHERE r.id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidence.ErrNotFound
	}
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "get", err)
	}

	findings, err := s.Findings(ctx, &evidence.Query{RunID: id})
	if err != nil {
		return nil, err
	}
	run.Findings = findings
	return run, nil
}

// ListRuns retrieves the runs matching the query filters.
func (s *SQLiteStorage) ListRuns(ctx context.Context, query *evidence.Query) ([]*evidence.RunRecord, error) {
	whereClause, args := buildWhereClause(query, false)

	sqlQuery := "SELECT " + runColumns + " FROM runs r"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += fmt.Sprintf(" ORDER BY r.started_at %s, r.id %s", sortOrder(query), sortOrder(query))
	sqlQuery += pagination(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	runs := []*evidence.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, evidence.NewStorageError("sqlite", "scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, evidence.NewStorageError("sqlite", "list", err)
	}

	return runs, nil
}

// Findings retrieves the findings of the runs matching the query.
func (s *SQLiteStorage) Findings(ctx context.Context, query *evidence.Query) ([]*evidence.FindingRecord, error) {
	whereClause, args := buildWhereClause(query, true)

	sqlQuery := `SELECT f.run_id, f.rule, f.file, f.line, f.col, f.message, f.suggestion, f.fingerprint
		FROM findings f JOIN runs r ON r.id = f.run_id`
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += fmt.Sprintf(" ORDER BY r.started_at %s, f.run_id, f.file, f.line, f.col, f.rule", sortOrder(query))
	sqlQuery += pagination(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, evidence.NewStorageError("sqlite", "findings", err)
	}
	defer rows.Close()

	findings := []*evidence.FindingRecord{}
	for rows.Next() {
		var f evidence.FindingRecord
		var suggestion sql.NullString
		if err := rows.Scan(&f.RunID, &f.Rule, &f.File, &f.Line, &f.Column, &f.Message, &suggestion, &f.Fingerprint); err != nil {
			return nil, evidence.NewStorageError("sqlite", "scan", err)
		}
		if suggestion.Valid {
			f.Suggestion = suggestion.String
		}
		findings = append(findings, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, evidence.NewStorageError("sqlite", "findings", err)
	}

	return findings, nil
}

// Count returns the number of runs matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	whereClause, args := buildWhereClause(query, false)

	sqlQuery := "SELECT COUNT(*) FROM runs r"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, evidence.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes the runs matching the query filters and their findings.
// Returns the number of runs deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	whereClause, args := buildWhereClause(query, false)

	selectRuns := "SELECT r.id FROM runs r"
	if whereClause != "" {
		selectRuns += " WHERE " + whereClause
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE run_id IN ("+selectRuns+")", args...); err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id IN ("+selectRuns+")", args...)
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, evidence.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return evidence.NewStorageError("sqlite", "close", err)
	}
	s.logger.Debug("SQLite storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters against
// the runs table aliased r and, with findings set, the findings table
// aliased f. Returns the clause without the "WHERE" keyword and its
// arguments.
func buildWhereClause(query *evidence.Query, findings bool) (string, []any) {
	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "r.started_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "r.started_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.RunID != "" {
		conditions = append(conditions, "r.id = ?")
		args = append(args, query.RunID)
	}
	if query.Trigger != "" {
		conditions = append(conditions, "r.trigger_name = ?")
		args = append(args, query.Trigger)
	}

	if findings {
		if query.Rule != "" {
			conditions = append(conditions, "f.rule = ?")
			args = append(args, query.Rule)
		}
		if query.File != "" {
			conditions = append(conditions, "f.file = ?")
			args = append(args, query.File)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func sortOrder(query *evidence.Query) string {
	if strings.EqualFold(query.SortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}

// pagination renders LIMIT and OFFSET. A zero limit means no limit.
func pagination(query *evidence.Query) string {
	switch {
	case query.Limit > 0 && query.Offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", query.Limit, query.Offset)
	case query.Limit > 0:
		return fmt.Sprintf(" LIMIT %d", query.Limit)
	case query.Offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", query.Offset)
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans a row selected with runColumns.
func scanRun(row rowScanner) (*evidence.RunRecord, error) {
	var run evidence.RunRecord
	var version, rules sql.NullString
	var startedAt, finishedAt, durationNs int64

	err := row.Scan(
		&run.ID, &run.Trigger, &version,
		&startedAt, &finishedAt, &durationNs,
		&rules,
		&run.FilesChecked, &run.FilesFailed, &run.ViolationCount, &run.SuppressedCount,
	)
	if err != nil {
		return nil, err
	}

	run.Version = version.String
	run.StartedAt = time.Unix(0, startedAt)
	run.FinishedAt = time.Unix(0, finishedAt)
	run.Duration = time.Duration(durationNs)
	if rules.Valid && rules.String != "" {
		if err := json.Unmarshal([]byte(rules.String), &run.Rules); err != nil {
			return nil, fmt.Errorf("decode rules: %w", err)
		}
	}

	return &run, nil
}
