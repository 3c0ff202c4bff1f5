package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/evidence/query"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	latest := s.latest.Load()
	if latest == nil {
		writeError(w, http.StatusNotFound, "no run has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := s.opts.Store.ListRuns(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []*evidence.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.opts.Store.GetRun(r.Context(), id)
	if errors.Is(err, evidence.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("run %s not found", id))
		return
	}
	if err != nil {
		s.logger.Error("failed to get run", "run_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.RunID = chi.URLParam(r, "id")

	findings, err := s.opts.Store.Findings(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to list findings", "run_id", q.RunID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list findings")
		return
	}
	writeJSON(w, http.StatusOK, findings)
}

// parseQuery reads history filters from URL parameters: limit, offset,
// order, trigger, rule, file, since and until (RFC 3339).
func parseQuery(v url.Values) (*evidence.Query, error) {
	q := &evidence.Query{
		Trigger:   v.Get("trigger"),
		Rule:      v.Get("rule"),
		File:      v.Get("file"),
		SortOrder: v.Get("order"),
	}

	var err error
	if q.Limit, err = intParam(v, "limit"); err != nil {
		return nil, err
	}
	if q.Offset, err = intParam(v, "offset"); err != nil {
		return nil, err
	}
	if q.StartTime, err = timeParam(v, "since"); err != nil {
		return nil, err
	}
	if q.EndTime, err = timeParam(v, "until"); err != nil {
		return nil, err
	}

	if err := query.Validate(q); err != nil {
		return nil, err
	}
	query.ApplyDefaults(q)
	return q, nil
}

func intParam(v url.Values, name string) (int, error) {
	raw := v.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}

func timeParam(v url.Values, name string) (*time.Time, error) {
	raw := v.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &t, nil
}
