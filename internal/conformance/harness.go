// Package conformance exercises the scheduling service's REST contract
// through the shared case-runner harness, against the in-process stub.
//
// Every case states its expectations the same way: a status tolerance
// set, an application/json content-type check, and JSONPath body-shape
// checks. The harness below is the single place that builds clients,
// injects auth and evaluates expectations; the per-endpoint files only
// declare cases.
package conformance

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/infra/caserunner"
	"github.com/aalvaropc/taskproof/internal/infra/httpclient"
	"github.com/aalvaropc/taskproof/internal/infra/logger"
	"github.com/aalvaropc/taskproof/internal/stubapi"
	"github.com/aalvaropc/taskproof/internal/usecase/expect"
	"github.com/aalvaropc/taskproof/internal/usecase/extract"
)

const apiToken = "tr_conformance_token"

// Fixture identifiers seeded by the stub store.
const (
	projectMain      = "proj-main"
	projectEmpty     = "proj-empty"
	projectForbidden = "proj-forbidden"
	scheduleSeeded   = "sched_imperative001"
	runDelayed       = "run_delayed001"
	runExecuting     = "run_executing001"
	runCompleted     = "run_completed001"
	taskEmail        = "email.welcome"
	taskReport       = "report.daily"
)

// Harness wires one stub instance to one case runner for a test.
type Harness struct {
	t      *testing.T
	Target domain.Target
	runner *caserunner.Runner
	vars   domain.Vars
}

func newHarness(t *testing.T) *Harness {
	t.Helper()

	srv := httptest.NewServer(stubapi.NewServer(apiToken).Routes())
	t.Cleanup(srv.Close)

	target := domain.Target{
		Name:    "stub",
		BaseURL: srv.URL,
		Token:   apiToken,
		Vars: domain.Vars{
			"project_ref": projectMain,
			"env":         "dev",
		},
	}

	return &Harness{
		t:      t,
		Target: target,
		runner: caserunner.New(httpclient.NewExecutor()),
		vars:   domain.Merge(target.Vars, nil),
	}
}

// SetVar makes a runtime variable available to later cases, the same
// threading RunSuite does between chained cases.
func (h *Harness) SetVar(key, value string) {
	h.vars[key] = value
}

// Run executes a case and fails the test on config or transport errors.
func (h *Harness) Run(cs domain.CaseSpec) domain.CaseResult {
	h.t.Helper()

	res, err := h.runner.Run(context.Background(), h.Target, cs, h.vars)
	require.NoError(h.t, err, "case %q failed to run", cs.Name)
	require.Nil(h.t, res.Error, "case %q transport error", cs.Name)

	logger.L().Info("conformance.case",
		"case", cs.Name,
		"method", string(res.Method),
		"status", res.StatusCode,
		"latency_ms", res.LatencyMS,
	)
	return res
}

// Check runs a case and asserts every expectation holds.
func (h *Harness) Check(cs domain.CaseSpec) domain.CaseResult {
	h.t.Helper()

	res := h.Run(cs)
	checks := expect.Evaluate(cs.Expect, expect.Observed{
		Status:      res.StatusCode,
		ContentType: contentType(res.Response),
		LatencyMS:   res.LatencyMS,
		Body:        res.Response.Body,
	})
	for _, c := range checks {
		require.True(h.t, c.Passed, "case %q check %s: %s", cs.Name, c.Name, c.Message)
	}
	res.Checks = checks
	return res
}

func contentType(snap domain.ResponseSnapshot) string {
	if vals, ok := snap.Headers["Content-Type"]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// jsonExpect is shorthand for the check stamped on nearly every case:
// status in the tolerance set plus JSON content type.
func jsonExpect(statusIn ...int) domain.ExpectSpec {
	return domain.ExpectSpec{
		StatusIn:    statusIn,
		ContentType: "application/json",
	}
}

func withJSONPath(e domain.ExpectSpec, checks map[string]domain.JSONPathCheck) domain.ExpectSpec {
	e.JSONPath = checks
	return e
}

// extractVars pulls variables out of a response body, failing the test
// if any extraction rule misses.
func extractVars(t *testing.T, body []byte, spec domain.ExtractSpec) domain.Vars {
	t.Helper()
	vars, results := extract.Apply(body, spec)
	for _, r := range results {
		require.True(t, r.Success, "extract %s: %s", r.Name, r.Message)
	}
	return vars
}

func strPtr(s string) *string { return &s }
