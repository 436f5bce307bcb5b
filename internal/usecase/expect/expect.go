// Package expect evaluates conformance expectations against observed responses.
//
// It is the single place where status-code tolerance sets, content-type checks
// and JSONPath body-shape checks are implemented; conformance cases declare
// expectations declaratively and never inspect responses by hand.
package expect

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/taskproof/internal/domain"
)

// Observed is the response surface the checks run against.
type Observed struct {
	Status      int
	ContentType string
	LatencyMS   int64
	Body        []byte
}

// StatusIn checks membership of the observed status in the tolerance set.
func StatusIn(expected []int, got int) domain.CheckResult {
	for _, want := range expected {
		if got == want {
			return domain.CheckResult{
				Name:    "status_in",
				Passed:  true,
				Message: fmt.Sprintf("status %d in %v", got, expected),
			}
		}
	}

	return domain.CheckResult{
		Name:    "status_in",
		Passed:  false,
		Message: fmt.Sprintf("expected status in %v, got %d", expected, got),
	}
}

// ContentType checks that the observed Content-Type contains the expected value.
// Matching is case-insensitive and ignores parameters such as charset.
func ContentType(expected string, got string) domain.CheckResult {
	if strings.Contains(strings.ToLower(got), strings.ToLower(expected)) {
		return domain.CheckResult{
			Name:    "content_type",
			Passed:  true,
			Message: fmt.Sprintf("content-type %q contains %q", got, expected),
		}
	}

	return domain.CheckResult{
		Name:    "content_type",
		Passed:  false,
		Message: fmt.Sprintf("expected content-type containing %q, got %q", expected, got),
	}
}

// MaxLatency checks the observed latency against a millisecond ceiling.
func MaxLatency(maxMs int, latencyMs int64) domain.CheckResult {
	if latencyMs <= int64(maxMs) {
		return domain.CheckResult{
			Name:    "max_ms",
			Passed:  true,
			Message: fmt.Sprintf("latency %dms <= %dms", latencyMs, maxMs),
		}
	}

	return domain.CheckResult{
		Name:    "max_ms",
		Passed:  false,
		Message: fmt.Sprintf("expected latency <= %dms, got %dms", maxMs, latencyMs),
	}
}

// Evaluate applies the expectation spec against the observed response.
// It parses the body as JSON only if JSONPath checks are present.
func Evaluate(spec domain.ExpectSpec, obs Observed) []domain.CheckResult {
	var out []domain.CheckResult

	if len(spec.StatusIn) > 0 {
		out = append(out, StatusIn(spec.StatusIn, obs.Status))
	}
	if spec.ContentType != "" {
		out = append(out, ContentType(spec.ContentType, obs.ContentType))
	}
	if spec.MaxLatencyMS != nil {
		out = append(out, MaxLatency(*spec.MaxLatencyMS, obs.LatencyMS))
	}

	if len(spec.JSONPath) == 0 {
		return out
	}

	// Stable order for reporting.
	exprs := make([]string, 0, len(spec.JSONPath))
	for expr := range spec.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	doc, err := parseJSON(obs.Body)
	if err != nil {
		for _, expr := range exprs {
			out = append(out, jsonPathChecks(expr, spec.JSONPath[expr], nil,
				fmt.Errorf("response body is not valid JSON"))...)
		}
		return out
	}

	for _, expr := range exprs {
		val, getErr := jsonpath.Get(expr, doc)
		out = append(out, jsonPathChecks(expr, spec.JSONPath[expr], val, getErr)...)
	}

	return out
}

func jsonPathChecks(expr string, c domain.JSONPathCheck, val any, getErr error) []domain.CheckResult {
	var out []domain.CheckResult
	if c.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if c.Type != "" {
		out = append(out, checkType(expr, val, getErr, c.Type))
	}
	if c.Eq != nil {
		out = append(out, checkEq(expr, val, getErr, *c.Eq))
	}
	if c.Contains != nil {
		out = append(out, checkContains(expr, val, getErr, *c.Contains))
	}
	if c.Matches != nil {
		out = append(out, checkMatches(expr, val, getErr, *c.Matches))
	}
	return out
}

func checkExists(expr string, val any, getErr error) domain.CheckResult {
	if getErr != nil {
		return domain.CheckResult{
			Name:    "jsonpath.exists",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
		}
	}
	if val == nil {
		return domain.CheckResult{
			Name:    "jsonpath.exists",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: expected value to exist, got null", expr),
		}
	}
	return domain.CheckResult{
		Name:    "jsonpath.exists",
		Passed:  true,
		Message: fmt.Sprintf("jsonpath %q exists", expr),
	}
}

// checkType validates the JSON type of the value at expr.
// Accepted names: string, number, boolean, array, object.
func checkType(expr string, val any, getErr error, want string) domain.CheckResult {
	if getErr != nil {
		return domain.CheckResult{
			Name:    "jsonpath.type",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
		}
	}

	got := jsonTypeName(val)
	if got == want {
		return domain.CheckResult{
			Name:    "jsonpath.type",
			Passed:  true,
			Message: fmt.Sprintf("jsonpath %q is %s", expr, want),
		}
	}
	return domain.CheckResult{
		Name:    "jsonpath.type",
		Passed:  false,
		Message: fmt.Sprintf("jsonpath %q: expected %s, got %s", expr, want, got),
	}
}

func checkEq(expr string, val any, getErr error, expected string) domain.CheckResult {
	if getErr != nil {
		return domain.CheckResult{
			Name:    "jsonpath.eq",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
		}
	}
	s, err := valueToString(val)
	if err != nil {
		return domain.CheckResult{
			Name:    "jsonpath.eq",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, err),
		}
	}
	if s == expected {
		return domain.CheckResult{
			Name:    "jsonpath.eq",
			Passed:  true,
			Message: fmt.Sprintf("jsonpath %q eq %q", expr, expected),
		}
	}
	return domain.CheckResult{
		Name:    "jsonpath.eq",
		Passed:  false,
		Message: fmt.Sprintf("jsonpath %q: expected %q, got %q", expr, expected, s),
	}
}

func checkContains(expr string, val any, getErr error, sub string) domain.CheckResult {
	if getErr != nil {
		return domain.CheckResult{
			Name:    "jsonpath.contains",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
		}
	}
	s, err := valueToString(val)
	if err != nil {
		return domain.CheckResult{
			Name:    "jsonpath.contains",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, err),
		}
	}
	if strings.Contains(s, sub) {
		return domain.CheckResult{
			Name:    "jsonpath.contains",
			Passed:  true,
			Message: fmt.Sprintf("jsonpath %q contains %q", expr, sub),
		}
	}
	return domain.CheckResult{
		Name:    "jsonpath.contains",
		Passed:  false,
		Message: fmt.Sprintf("jsonpath %q: %q does not contain %q", expr, s, sub),
	}
}

func checkMatches(expr string, val any, getErr error, pattern string) domain.CheckResult {
	if getErr != nil {
		return domain.CheckResult{
			Name:    "jsonpath.matches",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, getErr),
		}
	}
	s, err := valueToString(val)
	if err != nil {
		return domain.CheckResult{
			Name:    "jsonpath.matches",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", expr, err),
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return domain.CheckResult{
			Name:    "jsonpath.matches",
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: invalid regex %q: %v", expr, pattern, err),
		}
	}
	if re.MatchString(s) {
		return domain.CheckResult{
			Name:    "jsonpath.matches",
			Passed:  true,
			Message: fmt.Sprintf("jsonpath %q matches %q", expr, pattern),
		}
	}
	return domain.CheckResult{
		Name:    "jsonpath.matches",
		Passed:  false,
		Message: fmt.Sprintf("jsonpath %q: %q does not match %q", expr, s, pattern),
	}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func valueToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
