package stubapi

import (
	"sort"
	"sync"
	"time"
)

// EnvVar is a named configuration value scoped to a project and environment.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Schedule is a stored definition describing when to trigger runs.
type Schedule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Active    bool   `json:"active"`
	StartAt   string `json:"startAt,omitempty"`
	EndAt     string `json:"endAt,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Run is an execution instance of a task or schedule.
type Run struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	TaskID    string         `json:"taskIdentifier"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"createdAt"`
}

// Run lifecycle states the contract distinguishes.
const (
	RunDelayed   = "DELAYED"
	RunExecuting = "EXECUTING"
	RunCompleted = "COMPLETED"
	RunCanceled  = "CANCELED"
)

// Store holds the seeded fixtures behind a mutex so the suites can run
// with t.Parallel if they want to.
type Store struct {
	mu sync.Mutex

	projects  map[string]bool // ref -> forbidden
	envvars   map[string]map[string]map[string]string
	schedules map[string]*Schedule
	runs      map[string]*Run
	tasks     map[string]bool

	now func() time.Time
}

// NewStore seeds the deterministic fixture set every conformance case
// is written against.
func NewStore() *Store {
	s := &Store{
		projects: map[string]bool{
			"proj-main":      false,
			"proj-empty":     false,
			"proj-forbidden": true,
		},
		envvars: map[string]map[string]map[string]string{
			"proj-main": {
				"dev": {
					"TEST_VARIABLE": "hello",
					"DATABASE_URL":  "postgres://localhost/app",
				},
				"staging": {
					"TEST_VARIABLE": "hola",
				},
			},
			"proj-empty": {
				"dev": {},
			},
		},
		schedules: map[string]*Schedule{
			"sched_imperative001": {
				ID:        "sched_imperative001",
				Name:      "Nightly Report",
				Type:      "IMPERATIVE",
				Active:    true,
				StartAt:   "2026-01-01T00:00:00Z",
				CreatedAt: "2026-01-01T00:00:00Z",
				UpdatedAt: "2026-01-01T00:00:00Z",
			},
		},
		runs: map[string]*Run{
			"run_delayed001": {
				ID:        "run_delayed001",
				Status:    RunDelayed,
				TaskID:    "email.welcome",
				Metadata:  map[string]any{},
				CreatedAt: "2026-01-02T00:00:00Z",
			},
			"run_executing001": {
				ID:        "run_executing001",
				Status:    RunExecuting,
				TaskID:    "report.daily",
				Metadata:  map[string]any{},
				CreatedAt: "2026-01-02T01:00:00Z",
			},
			"run_completed001": {
				ID:        "run_completed001",
				Status:    RunCompleted,
				TaskID:    "report.daily",
				Metadata:  map[string]any{},
				CreatedAt: "2026-01-02T02:00:00Z",
			},
		},
		tasks: map[string]bool{
			"email.welcome": true,
			"report.daily":  true,
		},
		now: time.Now,
	}
	return s
}

func (s *Store) nowRFC3339() string {
	return s.now().UTC().Format(time.RFC3339)
}

// projectState reports whether the project exists and whether access to
// it is forbidden for the configured token.
func (s *Store) projectState(ref string) (exists, forbidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.projects[ref]
	return ok, f
}

func (s *Store) listEnvVars(ref, env string) ([]EnvVar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	envs, ok := s.envvars[ref]
	if !ok {
		return []EnvVar{}, true // project known, no vars seeded at all
	}
	vars, ok := envs[env]
	if !ok {
		return []EnvVar{}, true
	}

	out := make([]EnvVar, 0, len(vars))
	for name, value := range vars {
		out = append(out, EnvVar{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, true
}

func (s *Store) getEnvVar(ref, env, name string) (EnvVar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vars, ok := s.envvars[ref][env]; ok {
		if v, ok := vars[name]; ok {
			return EnvVar{Name: name, Value: v}, true
		}
	}
	return EnvVar{}, false
}

func (s *Store) setEnvVar(ref, env, name, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, ok := s.envvars[ref][env]
	if !ok {
		return false
	}
	if _, ok := vars[name]; !ok {
		return false
	}
	vars[name] = value
	return true
}

func (s *Store) importEnvVars(ref, env string, vars map[string]string, override bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.envvars[ref] == nil {
		s.envvars[ref] = map[string]map[string]string{}
	}
	if s.envvars[ref][env] == nil {
		s.envvars[ref][env] = map[string]string{}
	}
	for k, v := range vars {
		if _, exists := s.envvars[ref][env][k]; exists && !override {
			continue
		}
		s.envvars[ref][env][k] = v
	}
}

func (s *Store) deleteEnvVar(ref, env, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, ok := s.envvars[ref][env]
	if !ok {
		return false
	}
	if _, ok := vars[name]; !ok {
		return false
	}
	delete(vars, name)
	return true
}

func (s *Store) listSchedules() []Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Schedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) getSchedule(id string) (Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok {
		return Schedule{}, false
	}
	return *sc, true
}

func (s *Store) putSchedule(sc Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sc
	s.schedules[sc.ID] = &cp
}

func (s *Store) deleteSchedule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return false
	}
	delete(s.schedules, id)
	return true
}

func (s *Store) setScheduleActive(id string, active bool) (Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok {
		return Schedule{}, false
	}
	sc.Active = active
	sc.UpdatedAt = s.nowRFC3339()
	return *sc, true
}

func (s *Store) getRun(id string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	return *r, true
}

func (s *Store) listRuns() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) putRun(r Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := r
	s.runs[r.ID] = &cp
}

func (s *Store) updateRunMetadata(id string, meta map[string]any) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	r.Metadata = meta
	return *r, true
}

func (s *Store) setRunStatus(id, status string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	r.Status = status
	return *r, true
}

func (s *Store) taskExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id]
}
