package stubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxBatchTasks = 500

type batchTask struct {
	Name    *string        `json:"name"`
	Payload map[string]any `json:"payload"`
}

type batchRequest struct {
	Tasks []batchTask `json:"tasks"`
}

func (s *Server) batchTriggerTasks(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Tasks == nil {
		writeError(w, http.StatusUnprocessableEntity, "Field tasks is required")
		return
	}
	if len(req.Tasks) > maxBatchTasks {
		writeError(w, http.StatusUnprocessableEntity, "A batch can contain at most 500 tasks")
		return
	}
	for _, t := range req.Tasks {
		if t.Name == nil || *t.Name == "" {
			writeError(w, http.StatusUnprocessableEntity, "Each task needs a name")
			return
		}
	}

	runs := make([]Run, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		run := Run{
			ID:        "run_" + uuidSuffix(),
			Status:    RunDelayed,
			TaskID:    *t.Name,
			Metadata:  map[string]any{},
			CreatedAt: s.store.nowRFC3339(),
		}
		s.store.putRun(run)
		runs = append(runs, run)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"runs":    runs,
	})
}

type triggerRequest struct {
	Payload map[string]any `json:"payload"`
}

func (s *Server) triggerTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskIdentifier")
	if !checkParam(w, id, "taskIdentifier", taskIDRe) {
		return
	}
	if !s.store.taskExists(id) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req triggerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	run := Run{
		ID:        "run_" + uuidSuffix(),
		Status:    RunDelayed,
		TaskID:    id,
		Metadata:  map[string]any{},
		CreatedAt: s.store.nowRFC3339(),
	}
	s.store.putRun(run)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      run.ID,
	})
}
