package stubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listEnvVars(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	env := chi.URLParam(r, "env")

	if !s.checkProject(w, ref) {
		return
	}
	if !checkParam(w, env, "env", envNameRe) {
		return
	}

	vars, _ := s.store.listEnvVars(ref, env)
	writeJSON(w, http.StatusOK, map[string]any{"envVars": vars})
}

func (s *Server) getEnvVar(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	env := chi.URLParam(r, "env")
	name := chi.URLParam(r, "name")

	if !s.checkProject(w, ref) {
		return
	}
	if !checkParam(w, env, "env", envNameRe) {
		return
	}
	if !checkParam(w, name, "name", envVarNameRe) {
		return
	}

	v, ok := s.store.getEnvVar(ref, env, name)
	if !ok {
		writeError(w, http.StatusNotFound, "Environment variable not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type updateEnvVarRequest struct {
	Value *string `json:"value"`
}

func (s *Server) updateEnvVar(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	env := chi.URLParam(r, "env")
	name := chi.URLParam(r, "name")

	if !s.checkProject(w, ref) {
		return
	}
	if !checkParam(w, env, "env", envNameRe) {
		return
	}
	if !checkParam(w, name, "name", envVarNameRe) {
		return
	}

	var req updateEnvVarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusUnprocessableEntity, "Field value is required")
		return
	}

	if !s.store.setEnvVar(ref, env, name, *req.Value) {
		writeError(w, http.StatusNotFound, "Environment variable not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) deleteEnvVar(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	env := chi.URLParam(r, "env")
	name := chi.URLParam(r, "name")

	if !s.checkProject(w, ref) {
		return
	}
	if !checkParam(w, env, "env", envNameRe) {
		return
	}
	if !checkParam(w, name, "name", envVarNameRe) {
		return
	}

	if !s.store.deleteEnvVar(ref, env, name) {
		writeError(w, http.StatusNotFound, "Environment variable not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type importEnvVarsRequest struct {
	Variables []struct {
		Key   *string `json:"key"`
		Value *string `json:"value"`
	} `json:"variables"`
	Override bool `json:"override"`
}

func (s *Server) importEnvVars(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "projectRef")
	env := chi.URLParam(r, "env")

	if !s.checkProject(w, ref) {
		return
	}
	if !checkParam(w, env, "env", envNameRe) {
		return
	}

	var req importEnvVarsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Variables == nil {
		writeError(w, http.StatusUnprocessableEntity, "Field variables is required")
		return
	}

	vars := make(map[string]string, len(req.Variables))
	for _, v := range req.Variables {
		if v.Key == nil || v.Value == nil {
			writeError(w, http.StatusUnprocessableEntity, "Each variable needs key and value")
			return
		}
		if !envVarNameRe.MatchString(*v.Key) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid variable key")
			return
		}
		vars[*v.Key] = *v.Value
	}

	s.store.importEnvVars(ref, env, vars, req.Override)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
