package expect

import (
	"testing"

	"github.com/aalvaropc/taskproof/internal/domain"
)

// --- StatusIn ---

func TestStatusIn_Member(t *testing.T) {
	r := StatusIn([]int{400, 422}, 422)
	if !r.Passed {
		t.Fatalf("expected Passed=true for member status")
	}
	if r.Name != "status_in" {
		t.Fatalf("expected Name=status_in, got %q", r.Name)
	}
}

func TestStatusIn_Single(t *testing.T) {
	if r := StatusIn([]int{200}, 200); !r.Passed {
		t.Fatalf("expected pass for exact match")
	}
}

func TestStatusIn_FailMessage(t *testing.T) {
	r := StatusIn([]int{401, 403}, 200)
	if r.Passed {
		t.Fatalf("expected fail")
	}
	if r.Message != "expected status in [401 403], got 200" {
		t.Fatalf("unexpected message: %q", r.Message)
	}
}

// --- ContentType ---

func TestContentType_WithCharset(t *testing.T) {
	r := ContentType("application/json", "application/json; charset=utf-8")
	if !r.Passed {
		t.Fatalf("expected pass, got: %s", r.Message)
	}
}

func TestContentType_CaseInsensitive(t *testing.T) {
	if r := ContentType("application/json", "Application/JSON"); !r.Passed {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestContentType_Mismatch(t *testing.T) {
	if r := ContentType("application/json", "text/html"); r.Passed {
		t.Fatalf("expected fail for text/html")
	}
}

// --- MaxLatency ---

func TestMaxLatency_WithinThreshold(t *testing.T) {
	if r := MaxLatency(500, 500); !r.Passed {
		t.Fatalf("expected Passed=true at exact threshold")
	}
}

func TestMaxLatency_Exceeded(t *testing.T) {
	r := MaxLatency(100, 250)
	if r.Passed {
		t.Fatalf("expected fail")
	}
	if r.Message != "expected latency <= 100ms, got 250ms" {
		t.Fatalf("unexpected message: %q", r.Message)
	}
}

// --- Evaluate ---

func TestEvaluate_NoExpectations(t *testing.T) {
	out := Evaluate(domain.ExpectSpec{}, Observed{Status: 200, Body: []byte(`{}`)})
	if len(out) != 0 {
		t.Fatalf("expected 0 results, got %d", len(out))
	}
}

func TestEvaluate_StatusAndContentType(t *testing.T) {
	spec := domain.ExpectSpec{
		StatusIn:    []int{200},
		ContentType: "application/json",
	}
	out := Evaluate(spec, Observed{Status: 200, ContentType: "application/json"})
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for _, r := range out {
		if !r.Passed {
			t.Fatalf("expected pass, got fail: %s", r.Message)
		}
	}
}

func TestEvaluate_JSONPathExists(t *testing.T) {
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.envVars": {Exists: true, Type: "array"},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`{"envVars":[{"name":"A","value":"1"}]}`)})
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got=%d", len(out))
	}
	for _, r := range out {
		if !r.Passed {
			t.Fatalf("expected pass, got fail: %s", r.Message)
		}
	}
}

func TestEvaluate_JSONPathTypeMismatch(t *testing.T) {
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.timezones": {Type: "array"},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`{"timezones":"UTC"}`)})
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got=%d", len(out))
	}
	if out[0].Passed {
		t.Fatalf("expected type check to fail")
	}
}

func TestEvaluate_JSONPathEq(t *testing.T) {
	eq := "Run not found"
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.error": {Eq: &eq},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`{"error":"Run not found"}`)})
	if !out[0].Passed {
		t.Fatalf("expected eq pass, got: %s", out[0].Message)
	}
}

func TestEvaluate_JSONPathMatches(t *testing.T) {
	pattern := `^sched_[a-z0-9]+$`
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.id": {Matches: &pattern},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`{"id":"sched_9f3ab"}`)})
	if !out[0].Passed {
		t.Fatalf("expected matches pass, got: %s", out[0].Message)
	}
}

func TestEvaluate_NonJSONBody(t *testing.T) {
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.error": {Exists: true},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`<html>nope</html>`)})
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got=%d", len(out))
	}
	if out[0].Passed {
		t.Fatalf("expected fail for non-JSON body")
	}
}

func TestEvaluate_MissingPath(t *testing.T) {
	spec := domain.ExpectSpec{
		JSONPath: map[string]domain.JSONPathCheck{
			"$.data.id": {Exists: true},
		},
	}

	out := Evaluate(spec, Observed{Body: []byte(`{"data":{}}`)})
	if out[0].Passed {
		t.Fatalf("expected fail for missing path")
	}
}
