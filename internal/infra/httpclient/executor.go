package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

const defaultMaxBodyBytes = 256 * 1024 // 256KB

// ResponseData is the transport-level outcome of one request: status,
// headers, a bounded body capture and the measured duration.
type ResponseData struct {
	Status    int
	Headers   http.Header
	Body      []byte
	Truncated bool
	Duration  time.Duration
}

// Executor times requests and captures a bounded response snapshot.
// The case runner goes through it so every case gets the same timeout
// and capture rules.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

type ExecutorOption func(*Executor)

// WithTimeout caps the total duration of each request. A shorter
// context deadline still wins.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithMaxBodyBytes bounds how much of the response body is captured.
func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) { e.maxBodyBytes = n }
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:       New(cfg),
		timeout:      cfg.Timeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do executes the request, reading at most the configured number of
// body bytes. Truncated reports whether the capture was cut off.
func (e *Executor) Do(ctx context.Context, req *http.Request) (ResponseData, error) {
	runCtx := ctx
	cancel := func() {}
	if e.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	start := time.Now()
	resp, err := e.client.Do(req.WithContext(runCtx))
	duration := time.Since(start)
	if err != nil {
		return ResponseData{Duration: duration}, err
	}
	defer resp.Body.Close()

	lim := io.LimitReader(resp.Body, e.maxBodyBytes+1)
	body, err := io.ReadAll(lim)
	if err != nil {
		return ResponseData{Duration: duration}, err
	}

	truncated := false
	if int64(len(body)) > e.maxBodyBytes {
		body = body[:e.maxBodyBytes]
		truncated = true
	}

	return ResponseData{
		Status:    resp.StatusCode,
		Headers:   resp.Header.Clone(),
		Body:      body,
		Truncated: truncated,
		Duration:  duration,
	}, nil
}
