package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"touchlint-hq/touchlint/pkg/evidence"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// History is lost when the process exits; it backs the "memory" store
// driver and tests.
type MemoryStorage struct {
	runs map[string]*evidence.RunRecord
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[string]*evidence.RunRecord),
	}
}

// SaveRun stores a copy of run.
func (s *MemoryStorage) SaveRun(ctx context.Context, run *evidence.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return evidence.NewStorageError("memory", "save", fmt.Errorf("run %s already exists", run.ID))
	}
	s.runs[run.ID] = copyRun(run, true)
	return nil
}

// GetRun returns a copy of the run with its findings.
func (s *MemoryStorage) GetRun(ctx context.Context, id string) (*evidence.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, evidence.ErrNotFound
	}
	out := copyRun(run, true)
	sortFindings(out.Findings)
	return out, nil
}

// ListRuns returns the runs matching the query without findings.
func (s *MemoryStorage) ListRuns(ctx context.Context, query *evidence.Query) ([]*evidence.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matching(query)
	out := make([]*evidence.RunRecord, 0, len(matched))
	for _, run := range paginate(matched, query) {
		out = append(out, copyRun(run, false))
	}
	return out, nil
}

// Findings returns the findings of the runs matching the query.
func (s *MemoryStorage) Findings(ctx context.Context, query *evidence.Query) ([]*evidence.FindingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*evidence.FindingRecord
	for _, run := range s.matching(query) {
		var findings []*evidence.FindingRecord
		for _, f := range run.Findings {
			if query.Rule != "" && f.Rule != query.Rule {
				continue
			}
			if query.File != "" && f.File != query.File {
				continue
			}
			fc := *f
			fc.RunID = run.ID
			findings = append(findings, &fc)
		}
		sortFindings(findings)
		all = append(all, findings...)
	}

	out := paginate(all, query)
	if out == nil {
		out = []*evidence.FindingRecord{}
	}
	return out, nil
}

// Count returns the number of runs matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matching(query))), nil
}

// Delete removes the runs matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, run := range s.matching(query) {
		delete(s.runs, run.ID)
		deleted++
	}
	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]*evidence.RunRecord)
	return nil
}

// Size returns the number of stored runs.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.runs)
}

// matching returns the runs matching the run filters of query, sorted by
// start time in the requested order. Callers hold the lock.
func (s *MemoryStorage) matching(query *evidence.Query) []*evidence.RunRecord {
	var out []*evidence.RunRecord
	for _, run := range s.runs {
		if matchesQuery(run, query) {
			out = append(out, run)
		}
	}

	asc := strings.EqualFold(query.SortOrder, "asc")
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartedAt.Equal(b.StartedAt) {
			if asc {
				return a.StartedAt.Before(b.StartedAt)
			}
			return a.StartedAt.After(b.StartedAt)
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return out
}

// matchesQuery checks if a run matches the run filters of query.
func matchesQuery(run *evidence.RunRecord, query *evidence.Query) bool {
	if query.StartTime != nil && run.StartedAt.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && run.StartedAt.After(*query.EndTime) {
		return false
	}
	if query.RunID != "" && run.ID != query.RunID {
		return false
	}
	if query.Trigger != "" && run.Trigger != query.Trigger {
		return false
	}
	return true
}

func paginate[T any](items []T, query *evidence.Query) []T {
	start := min(query.Offset, len(items))
	items = items[start:]
	if query.Limit > 0 && query.Limit < len(items) {
		items = items[:query.Limit]
	}
	return items
}

func copyRun(run *evidence.RunRecord, withFindings bool) *evidence.RunRecord {
	out := *run
	out.Rules = append([]string(nil), run.Rules...)
	out.Findings = nil
	if withFindings {
		for _, f := range run.Findings {
			fc := *f
			fc.RunID = run.ID
			out.Findings = append(out.Findings, &fc)
		}
	}
	return &out
}

func sortFindings(findings []*evidence.FindingRecord) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}
