package caserunner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/infra/httpclient"
)

func TestRunner_ResolvesAndAuthenticates(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[],"meta":{}}`))
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor())

	target := domain.Target{Name: "local", BaseURL: srv.URL, Token: "tr_dev_token"}
	cs := domain.CaseSpec{
		Name:   "list",
		Method: domain.MethodGet,
		Path:   "/api/v1/projects/{{project_ref}}/envvars/{{env}}",
		Query:  domain.Query{"page": "1", "perPage": "25"},
	}

	res, err := r.Run(context.Background(), target, cs, domain.Vars{
		"project_ref": "proj-main",
		"env":         "dev",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error != nil {
		t.Fatalf("expected no run error, got: %+v", res.Error)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got=%d", res.StatusCode)
	}
	if gotPath != "/api/v1/projects/proj-main/envvars/dev" {
		t.Fatalf("path=%s", gotPath)
	}
	if gotQuery != "page=1&perPage=25" {
		t.Fatalf("query=%s", gotQuery)
	}
	if gotAuth != "Bearer tr_dev_token" {
		t.Fatalf("auth=%q", gotAuth)
	}
}

func TestRunner_ReservedCharsStayInPath(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Invalid projectRef"}`))
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor())
	target := domain.Target{Name: "local", BaseURL: srv.URL}

	// A malformed ref containing "?" must reach the handler as a path
	// segment, not split the URL into path and query.
	cs := domain.CaseSpec{
		Name:   "malformed ref",
		Method: domain.MethodGet,
		Path:   "/api/v1/projects/???!!!/envvars/dev",
		Query:  domain.Query{"page": "1"},
	}

	res, err := r.Run(context.Background(), target, cs, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error != nil {
		t.Fatalf("expected no run error, got: %+v", res.Error)
	}
	if gotPath != "/api/v1/projects/???!!!/envvars/dev" {
		t.Fatalf("path=%s", gotPath)
	}
	if gotQuery != "page=1" {
		t.Fatalf("query=%s", gotQuery)
	}
	if res.StatusCode != 422 {
		t.Fatalf("expected 422, got=%d", res.StatusCode)
	}
}

func TestRunner_AuthNoneSkipsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid or Missing API key"}`))
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor())
	target := domain.Target{Name: "local", BaseURL: srv.URL, Token: "tr_dev_token"}
	cs := domain.CaseSpec{
		Name:   "no auth",
		Method: domain.MethodGet,
		Path:   "/api/v1/timezones",
		Auth:   domain.AuthSpec{Mode: domain.AuthNone},
	}

	res, err := r.Run(context.Background(), target, cs, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got=%q", gotAuth)
	}
	if res.StatusCode != 401 {
		t.Fatalf("expected 401, got=%d", res.StatusCode)
	}
}

func TestRunner_CaseTokenOverridesTarget(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor())
	target := domain.Target{Name: "local", BaseURL: srv.URL, Token: "tr_dev_token"}
	cs := domain.CaseSpec{
		Name:   "wrong token",
		Method: domain.MethodGet,
		Path:   "/api/v1/projects/proj-forbidden/runs",
		Auth:   domain.AuthSpec{Token: "tr_other_token"},
	}

	if _, err := r.Run(context.Background(), target, cs, domain.Vars{}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if gotAuth != "Bearer tr_other_token" {
		t.Fatalf("auth=%q", gotAuth)
	}
}

func TestRunner_TruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusOK)
		// Produce > 256KB
		w.Write([]byte(strings.Repeat("a", 300*1024)))
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor()) // executor default: 256KB
	target := domain.Target{Name: "local", BaseURL: srv.URL}
	cs := domain.CaseSpec{Name: "big", Method: domain.MethodGet, Path: "/big"}

	res, err := r.Run(context.Background(), target, cs, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error != nil {
		t.Fatalf("expected no run error, got: %+v", res.Error)
	}
	if !res.Response.Truncated {
		t.Fatalf("expected truncated=true")
	}
	if len(res.Response.Body) != 256*1024 {
		t.Fatalf("expected body len=256KB, got=%d", len(res.Response.Body))
	}
	if res.Response.Headers["X-Test"][0] != "1" {
		t.Fatalf("expected header X-Test=1")
	}
}

func TestRunner_ClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(httpclient.NewExecutor(httpclient.WithTimeout(50 * time.Millisecond)))
	target := domain.Target{Name: "local", BaseURL: srv.URL}
	cs := domain.CaseSpec{Name: "slow", Method: domain.MethodGet, Path: "/slow"}

	res, err := r.Run(context.Background(), target, cs, domain.Vars{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Error == nil {
		t.Fatalf("expected a run error")
	}
	if res.Error.Kind != domain.RunErrorTimeout {
		t.Fatalf("expected timeout kind, got=%s (msg=%s)", res.Error.Kind, res.Error.Message)
	}
}

func TestRunner_MissingVarIsError(t *testing.T) {
	r := New(httpclient.NewExecutor())
	target := domain.Target{Name: "local", BaseURL: "http://127.0.0.1:1"}
	cs := domain.CaseSpec{Name: "bad", Method: domain.MethodGet, Path: "/api/v1/schedules/{{schedule_id}}"}

	_, err := r.Run(context.Background(), target, cs, domain.Vars{})
	if err == nil {
		t.Fatalf("expected missing variable error")
	}
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got: %v", err)
	}
}

func TestRunner_EmptyBaseURL(t *testing.T) {
	r := New(httpclient.NewExecutor())
	cs := domain.CaseSpec{Name: "x", Method: domain.MethodGet, Path: "/x"}

	_, err := r.Run(context.Background(), domain.Target{Name: "local"}, cs, domain.Vars{})
	if err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
