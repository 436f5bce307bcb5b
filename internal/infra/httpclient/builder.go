package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aalvaropc/taskproof/internal/domain"
)

// BuildRequest builds an HTTP request from an already-assembled URL plus the
// case's headers and body spec. URL assembly (base URL, path, query, auth)
// belongs to the case runner.
func BuildRequest(ctx context.Context, method domain.HTTPMethod, url string, headers domain.Headers, body domain.BodySpec) (*http.Request, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidCase,
		}
	}

	var bodyReader *bytes.Reader
	contentType := ""

	switch body.Type {
	case domain.BodyNone, "":
		bodyReader = bytes.NewReader(nil)
	case domain.BodyJSON:
		if body.JSON != nil {
			payload, err := json.Marshal(body.JSON)
			if err != nil {
				return nil, &domain.OpError{
					Op:   "httpclient.build",
					Kind: domain.KindInvalidConfig,
					Err:  err,
				}
			}
			bodyReader = bytes.NewReader(payload)
		} else {
			bodyReader = bytes.NewReader(nil)
		}
		contentType = "application/json"
	case domain.BodyRaw:
		bodyReader = bytes.NewReader([]byte(body.Raw))
		contentType = body.ContentType
	default:
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidCase,
		}
	}

	req, err := http.NewRequestWithContext(ctx, string(method), url, bodyReader)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}
