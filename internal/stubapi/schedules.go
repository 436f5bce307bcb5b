package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxPerPage = 100
const maxScheduleNameLen = 200

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Count   int `json:"count"`
}

// parsePagination validates page/perPage query params. Returns ok=false
// if a response was already written.
func parsePagination(w http.ResponseWriter, r *http.Request) (pagination, bool) {
	p := pagination{Page: 1, PerPage: 25}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid page parameter")
			return p, false
		}
		p.Page = n
	}
	if raw := r.URL.Query().Get("perPage"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid perPage parameter")
			return p, false
		}
		if n > maxPerPage {
			writeError(w, http.StatusUnprocessableEntity, "perPage exceeds the maximum of 100")
			return p, false
		}
		p.PerPage = n
	}
	return p, true
}

func paginate[T any](items []T, p pagination) []T {
	start := (p.Page - 1) * p.PerPage
	if start >= len(items) {
		return []T{}
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePagination(w, r)
	if !ok {
		return
	}

	all := s.store.listSchedules()
	p.Count = len(all)
	writeJSON(w, http.StatusOK, map[string]any{
		"data": paginate(all, p),
		"meta": p,
	})
}

type scheduleRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	StartAt string  `json:"startAt"`
	EndAt   string  `json:"endAt"`
}

// validateScheduleBody applies the semantic rules shared by create and
// update. Returns false if a response was already written.
func validateScheduleBody(w http.ResponseWriter, req scheduleRequest) bool {
	if req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Field name is required")
		return false
	}
	if len(*req.Name) > maxScheduleNameLen {
		writeError(w, http.StatusUnprocessableEntity, "Field name is too long")
		return false
	}
	if req.Type == nil || *req.Type != "IMPERATIVE" {
		writeError(w, http.StatusUnprocessableEntity, "Field type must be IMPERATIVE")
		return false
	}
	for _, ts := range []string{req.StartAt, req.EndAt} {
		if ts == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Timestamps must be RFC3339")
			return false
		}
	}
	return true
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateScheduleBody(w, req) {
		return
	}

	now := s.store.nowRFC3339()
	sc := Schedule{
		ID:        "sched_" + uuidSuffix(),
		Name:      *req.Name,
		Type:      *req.Type,
		Active:    true,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.putSchedule(sc)
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
	if !checkParam(w, id, "schedule_id", scheduleIDRe) {
		return
	}

	sc, ok := s.store.getSchedule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
	if !checkParam(w, id, "schedule_id", scheduleIDRe) {
		return
	}

	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateScheduleBody(w, req) {
		return
	}

	sc, ok := s.store.getSchedule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Schedule not found")
		return
	}

	sc.Name = *req.Name
	sc.Type = *req.Type
	sc.StartAt = req.StartAt
	sc.EndAt = req.EndAt
	sc.UpdatedAt = s.store.nowRFC3339()
	s.store.putSchedule(sc)
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
	if !checkParam(w, id, "schedule_id", scheduleIDRe) {
		return
	}

	if !s.store.deleteSchedule(id) {
		writeError(w, http.StatusNotFound, "Schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) activateSchedule(w http.ResponseWriter, r *http.Request) {
	s.toggleSchedule(w, r, true)
}

func (s *Server) deactivateSchedule(w http.ResponseWriter, r *http.Request) {
	s.toggleSchedule(w, r, false)
}

func (s *Server) toggleSchedule(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "scheduleID")
	if !checkParam(w, id, "schedule_id", scheduleIDRe) {
		return
	}

	sc, ok := s.store.setScheduleActive(id, active)
	if !ok {
		writeError(w, http.StatusNotFound, "Schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// uuidSuffix returns a compact lowercase id component.
func uuidSuffix() string {
	u := uuid.New()
	out := make([]byte, 0, 32)
	for _, b := range u.String() {
		if b == '-' {
			continue
		}
		out = append(out, byte(b))
	}
	return string(out)
}
