package stubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listProjectRuns(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	if !s.checkProject(w, ref) {
		return
	}
	p, ok := parsePagination(w, r)
	if !ok {
		return
	}

	all := s.store.listRuns()
	p.Count = len(all)
	writeJSON(w, http.StatusOK, map[string]any{
		"data": paginate(all, p),
		"meta": p,
	})
}

type metadataRequest struct {
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) updateRunMetadata(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	if !checkParam(w, id, "runId", runIDRe) {
		return
	}

	var req metadataRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Metadata == nil {
		writeError(w, http.StatusUnprocessableEntity, "Field metadata is required")
		return
	}

	run, ok := s.store.updateRunMetadata(id, req.Metadata)
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

type rescheduleRequest struct {
	Delay *int `json:"delay"`
}

func (s *Server) rescheduleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	if !checkParam(w, id, "runId", runIDRe) {
		return
	}

	var req rescheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Delay == nil || *req.Delay < 0 {
		writeError(w, http.StatusUnprocessableEntity, "Field delay is required")
		return
	}

	run, ok := s.store.getRun(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}
	if run.Status != RunDelayed {
		writeError(w, http.StatusBadRequest, "Only DELAYED runs can be rescheduled")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) cancelRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	if !checkParam(w, id, "runId", runIDRe) {
		return
	}

	run, ok := s.store.getRun(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	// Cancelling an already finished run is idempotent.
	if run.Status != RunCompleted && run.Status != RunCanceled {
		run, _ = s.store.setRunStatus(id, RunCanceled)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     run.ID,
		"status": run.Status,
	})
}
