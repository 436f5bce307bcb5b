package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Validation rules are fixed so every conformance case gets exactly one
// status code:
//
//   - missing or wrong Bearer token     -> 401
//   - forbidden project                 -> 403
//   - malformed JSON body               -> 400
//   - body over 1MB                     -> 413
//   - path param over the length cap    -> 400
//   - path param failing its format     -> 422
//   - well-formed but unknown resource  -> 404
//   - body failing semantic validation  -> 422
//
// All responses carry application/json and errors use {"error": "..."}.
const maxBodyBytes = 1 << 20 // 1MB

const maxParamLen = 100

var (
	projectRefRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	envNameRe    = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	envVarNameRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	scheduleIDRe = regexp.MustCompile(`^sched_[a-z0-9]+$`)
	runIDRe      = regexp.MustCompile(`^run_[a-z0-9]+$`)
	taskIDRe     = regexp.MustCompile(`^[a-z][a-z0-9.\-]*$`)
)

// Server is an in-process stand-in for the scheduling service, implementing
// exactly the surface the conformance suites assert.
type Server struct {
	store *Store
	token string
}

func NewServer(token string) *Server {
	return &Server{
		store: NewStore(),
		token: token,
	}
}

// Store exposes the fixture store for test seeding.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.limitBody)
	r.Use(s.requireBearer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects/{projectRef}", func(r chi.Router) {
			r.Get("/envvars/{env}", s.listEnvVars)
			r.Post("/envvars/{env}/import", s.importEnvVars)
			r.Get("/envvars/{env}/{name}", s.getEnvVar)
			r.Put("/envvars/{env}/{name}", s.updateEnvVar)
			r.Delete("/envvars/{env}/{name}", s.deleteEnvVar)
			r.Get("/runs", s.listProjectRuns)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", s.listSchedules)
			r.Post("/", s.createSchedule)
			r.Get("/{scheduleID}", s.getSchedule)
			r.Put("/{scheduleID}", s.updateSchedule)
			r.Delete("/{scheduleID}", s.deleteSchedule)
			r.Post("/{scheduleID}/activate", s.activateSchedule)
			r.Post("/{scheduleID}/deactivate", s.deactivateSchedule)
		})

		r.Post("/tasks/batch", s.batchTriggerTasks)
		r.Post("/tasks/{taskIdentifier}/trigger", s.triggerTask)

		r.Put("/runs/{runID}/metadata", s.updateRunMetadata)
		r.Post("/runs/{runID}/reschedule", s.rescheduleRun)

		r.Get("/timezones", s.listTimezones)
	})

	r.Route("/api/v2", func(r chi.Router) {
		r.Post("/runs/{runID}/cancel", s.cancelRun)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			writeError(w, http.StatusUnauthorized, "Invalid or Missing API key")
			return
		}
		if auth[len(prefix):] != s.token {
			writeError(w, http.StatusUnauthorized, "Invalid or Missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body, mapping decode failures to 400 and
// oversized bodies to 413. Returns false if a response was already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// checkParam validates a path parameter against its format rule.
// Returns false if a response was already written.
func checkParam(w http.ResponseWriter, value, label string, re *regexp.Regexp) bool {
	if value == "" {
		writeError(w, http.StatusBadRequest, label+" is required")
		return false
	}
	if len(value) > maxParamLen {
		writeError(w, http.StatusBadRequest, label+" is too long")
		return false
	}
	if !re.MatchString(value) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid "+label)
		return false
	}
	return true
}

// checkProject validates the project ref and resolves its access state.
func (s *Server) checkProject(w http.ResponseWriter, ref string) bool {
	if !checkParam(w, ref, "projectRef", projectRefRe) {
		return false
	}
	exists, forbidden := s.store.projectState(ref)
	if !exists {
		writeError(w, http.StatusNotFound, "Project not found")
		return false
	}
	if forbidden {
		writeError(w, http.StatusForbidden, "Access to this project is forbidden")
		return false
	}
	return true
}
