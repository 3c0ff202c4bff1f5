package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"touchlint-hq/touchlint/pkg/lint/rules"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
)

// FileResult is the outcome of linting one file.
type FileResult struct {
	// Path is the file as it was passed to the engine.
	Path string

	// Violations are the unsuppressed findings, sorted by position.
	Violations []rules.Violation

	// Suppressed is the number of findings silenced by directives.
	Suppressed int

	// Err is set when the file could not be read or parsed.
	Err error

	// Size is the file size in bytes.
	Size int

	// Duration is the time spent parsing and checking the file.
	Duration time.Duration
}

// Status classifies the result for metrics and summaries.
func (r FileResult) Status() string {
	switch {
	case r.Err != nil:
		return metrics.StatusError
	case len(r.Violations) > 0:
		return metrics.StatusViolations
	default:
		return metrics.StatusClean
	}
}

// Report is the outcome of one lint run.
type Report struct {
	RunID     uuid.UUID
	Trigger   string
	StartedAt time.Time
	Duration  time.Duration

	// Rules are the names of the rules that ran, sorted.
	Rules []string

	// Files holds one result per linted file, sorted by path.
	Files []FileResult
}

// ViolationCount returns the number of violations across all files.
func (r *Report) ViolationCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Violations)
	}
	return n
}

// ErrorCount returns the number of files that could not be linted.
func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// SuppressedCount returns the number of violations silenced by directives.
func (r *Report) SuppressedCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.Suppressed
	}
	return n
}

// CountByRule returns the number of violations per rule name.
func (r *Report) CountByRule() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Files {
		for _, v := range f.Violations {
			counts[v.Rule]++
		}
	}
	return counts
}

// Violations returns all violations in report order.
func (r *Report) Violations() []rules.Violation {
	out := make([]rules.Violation, 0, r.ViolationCount())
	for _, f := range r.Files {
		out = append(out, f.Violations...)
	}
	return out
}

// Clean reports whether the run found neither violations nor errors.
func (r *Report) Clean() bool {
	return r.ViolationCount() == 0 && r.ErrorCount() == 0
}

// Summary is the serializable form of a report, used by JSON output and
// the watch mode HTTP endpoint.
type Summary struct {
	RunID        string         `json:"run_id"`
	Trigger      string         `json:"trigger"`
	StartedAt    time.Time      `json:"started_at"`
	DurationMS   int64          `json:"duration_ms"`
	Rules        []string       `json:"rules"`
	FilesChecked int            `json:"files_checked"`
	FilesFailed  int            `json:"files_failed"`
	Violations   int            `json:"violations"`
	Suppressed   int            `json:"suppressed"`
	ByRule       map[string]int `json:"by_rule"`
	Findings     []Finding      `json:"findings"`
	Errors       []FileError    `json:"errors,omitempty"`
}

// Finding is one violation in a Summary.
type Finding struct {
	Rule       string `json:"rule"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FileError is a file that could not be linted.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Summary converts the report into its serializable form.
func (r *Report) Summary() *Summary {
	s := &Summary{
		RunID:        r.RunID.String(),
		Trigger:      r.Trigger,
		StartedAt:    r.StartedAt,
		DurationMS:   r.Duration.Milliseconds(),
		Rules:        r.Rules,
		FilesChecked: len(r.Files),
		FilesFailed:  r.ErrorCount(),
		Violations:   r.ViolationCount(),
		Suppressed:   r.SuppressedCount(),
		ByRule:       r.CountByRule(),
		Findings:     make([]Finding, 0, r.ViolationCount()),
	}
	if s.Rules == nil {
		s.Rules = []string{}
	}
	for _, f := range r.Files {
		if f.Err != nil {
			s.Errors = append(s.Errors, FileError{File: f.Path, Error: f.Err.Error()})
		}
		for _, v := range f.Violations {
			s.Findings = append(s.Findings, Finding{
				Rule:       v.Rule,
				File:       v.Location.File,
				Line:       v.Location.Line,
				Column:     v.Location.Column,
				Message:    v.Message,
				Suggestion: v.Suggestion,
			})
		}
	}
	return s
}

func sortFiles(files []FileResult) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
}
