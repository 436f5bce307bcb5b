package domain

import (
	"context"
	"errors"
	"net"
	"time"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
)

// RunError represents a structured error produced by a case runner.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// NewRunError classifies a transport error into a RunError.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}

	re := &RunError{Kind: RunErrorUnknown, Message: err.Error()}

	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		re.Kind = RunErrorTimeout
	case errors.As(err, &dnsErr):
		re.Kind = RunErrorDNS
	case errors.As(err, &netErr) && netErr.Timeout():
		re.Kind = RunErrorTimeout
	case isConnError(err):
		re.Kind = RunErrorConn
	}

	return re
}

func isConnError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// CheckResult is the output of a single expectation check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// ExtractResult reports the outcome of one extraction rule.
type ExtractResult struct {
	Name    string
	Success bool
	Message string
}

// ResponseSnapshot stores a bounded view of the response.
// Keep it generic so the domain does not depend on net/http types.
type ResponseSnapshot struct {
	Headers   map[string][]string
	Body      []byte
	Truncated bool
}

// CaseResult represents the result of executing a single conformance case.
type CaseResult struct {
	CaseName string
	Method   HTTPMethod
	URL      string

	StatusCode int
	LatencyMS  int64

	Checks    []CheckResult
	Extracts  []ExtractResult
	Extracted Vars

	Response ResponseSnapshot
	Error    *RunError
}

// Passed reports whether the case ran without transport error and every
// expectation check held.
func (r CaseResult) Passed() bool {
	if r.Error != nil {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// SuiteResult represents the result of executing one suite against one target.
type SuiteResult struct {
	SuiteName  string
	SuitePath  string
	TargetName string

	StartedAt time.Time
	EndedAt   time.Time

	Results []CaseResult
}

// Failed returns the case results that did not pass.
func (r SuiteResult) Failed() []CaseResult {
	var out []CaseResult
	for _, c := range r.Results {
		if !c.Passed() {
			out = append(out, c)
		}
	}
	return out
}

// SuiteArtifact represents a persisted conformance run for reproducibility.
type SuiteArtifact struct {
	ID string

	SuiteName  string
	SuitePath  string
	TargetName string

	StartedAt  time.Time
	FinishedAt time.Time

	Results []CaseResult
}
