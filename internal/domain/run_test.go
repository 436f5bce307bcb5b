package domain

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestNewRunError_Nil(t *testing.T) {
	if NewRunError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestNewRunError_DeadlineExceeded(t *testing.T) {
	re := NewRunError(context.DeadlineExceeded)
	if re.Kind != RunErrorTimeout {
		t.Fatalf("expected timeout kind, got=%s", re.Kind)
	}
}

func TestNewRunError_DNS(t *testing.T) {
	re := NewRunError(&net.DNSError{Err: "no such host", Name: "api.invalid"})
	if re.Kind != RunErrorDNS {
		t.Fatalf("expected dns kind, got=%s", re.Kind)
	}
}

func TestNewRunError_Conn(t *testing.T) {
	re := NewRunError(&net.OpError{Op: "dial", Err: errors.New("connection refused")})
	if re.Kind != RunErrorConn {
		t.Fatalf("expected connection kind, got=%s", re.Kind)
	}
}

func TestNewRunError_Unknown(t *testing.T) {
	re := NewRunError(errors.New("boom"))
	if re.Kind != RunErrorUnknown {
		t.Fatalf("expected unknown kind, got=%s", re.Kind)
	}
}

func TestCaseResult_Passed(t *testing.T) {
	ok := CaseResult{Checks: []CheckResult{{Passed: true}, {Passed: true}}}
	if !ok.Passed() {
		t.Fatalf("expected passed")
	}

	failedCheck := CaseResult{Checks: []CheckResult{{Passed: true}, {Passed: false}}}
	if failedCheck.Passed() {
		t.Fatalf("expected failed on failing check")
	}

	transport := CaseResult{Error: &RunError{Kind: RunErrorConn}}
	if transport.Passed() {
		t.Fatalf("expected failed on transport error")
	}
}

func TestSuiteResult_Failed(t *testing.T) {
	sr := SuiteResult{
		Results: []CaseResult{
			{CaseName: "a", Checks: []CheckResult{{Passed: true}}},
			{CaseName: "b", Checks: []CheckResult{{Passed: false}}},
			{CaseName: "c", Error: &RunError{Kind: RunErrorTimeout}},
		},
	}

	failed := sr.Failed()
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed cases, got=%d", len(failed))
	}
	if failed[0].CaseName != "b" || failed[1].CaseName != "c" {
		t.Fatalf("unexpected failed cases: %+v", failed)
	}
}
