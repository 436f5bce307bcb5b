package caserunner

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/infra/httpclient"
	"github.com/aalvaropc/taskproof/internal/ports"
)

// Runner executes a single resolved case against a target. Transport
// failures become RunError on the result instead of a Go error so a
// suite keeps going past a dead endpoint.
type Runner struct {
	exec     *httpclient.Executor
	resolver *domain.VarResolver
}

type Option func(*Runner)

func WithResolver(vr *domain.VarResolver) Option {
	return func(r *Runner) { r.resolver = vr }
}

func New(exec *httpclient.Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:     exec,
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.CaseRunner = (*Runner)(nil)

func (r *Runner) Run(ctx context.Context, target domain.Target, cs domain.CaseSpec, vars domain.Vars) (domain.CaseResult, error) {
	rt, err := r.resolver.NewRuntime(vars)
	if err != nil {
		return domain.CaseResult{}, err
	}

	resolved, err := rt.ResolveCase(cs)
	if err != nil {
		// Config-level issue: missing var, invalid placeholder, etc.
		return domain.CaseResult{}, err
	}

	fullURL, err := assembleURL(target.BaseURL, resolved.Path, resolved.Query)
	if err != nil {
		return domain.CaseResult{}, err
	}

	result := domain.CaseResult{
		CaseName:  resolved.Name,
		Method:    resolved.Method,
		URL:       fullURL,
		Extracted: domain.Vars{},
		Extracts:  []domain.ExtractResult{},
		Checks:    []domain.CheckResult{},
		Response: domain.ResponseSnapshot{
			Headers: map[string][]string{},
		},
	}

	httpReq, err := httpclient.BuildRequest(ctx, resolved.Method, fullURL, resolved.Headers, resolved.Body)
	if err != nil {
		return domain.CaseResult{}, err
	}

	applyAuth(httpReq, resolved.Auth, target)

	data, err := r.exec.Do(ctx, httpReq)
	result.LatencyMS = data.Duration.Milliseconds()

	if err != nil {
		result.Error = domain.NewRunError(err)
		return result, nil
	}

	result.StatusCode = data.Status
	result.Response.Headers = cloneHeaders(data.Headers)
	result.Response.Body = data.Body
	result.Response.Truncated = data.Truncated
	return result, nil
}

// assembleURL joins the target base URL with the case path and encodes
// the query. The path is set on the URL struct so reserved characters
// in a case path ("?", "#", spaces) stay path characters; malformed-ref
// cases depend on reaching the handler instead of splitting the URL.
func assembleURL(baseURL, path string, query domain.Query) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", &domain.OpError{
			Op:   "caserunner.url",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidCase,
		}
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", &domain.OpError{
			Op:   "caserunner.url",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path += path

	if len(query) > 0 {
		q := url.Values{}
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// applyAuth sets the Authorization header unless the case opted out or
// the request already carries one.
func applyAuth(req *http.Request, auth domain.AuthSpec, target domain.Target) {
	if auth.Mode == domain.AuthNone {
		return
	}
	if req.Header.Get("Authorization") != "" {
		return
	}
	token := auth.Token
	if token == "" {
		token = target.Token
	}
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func cloneHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
