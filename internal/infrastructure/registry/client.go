// Package registry implements the HTTP client for the remote membership
// registry API. It is the single egress point for upstream calls: it attaches
// the session's bearer token at dispatch time and transparently recovers from
// an expired token with exactly one refresh-and-replay per request.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/metrics"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// APIError is an upstream 4xx/5xx response. Message carries the registry's
// {"message": ...} body verbatim so validation and duplicate-key errors reach
// the browser unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry: %d %s", e.Status, e.Message)
}

// Client talks to the registry on behalf of exactly one browser session.
// Each client owns a cookie jar so the upstream refresh cookie set at login
// never leaks across sessions (the withCredentials equivalent).
type Client struct {
	baseURL string
	http    *http.Client
	binding ports.SessionBinding
	log     zerolog.Logger
}

// NewClient builds a Client rooted at baseURL and bound to one session.
func NewClient(baseURL string, timeout time.Duration, binding ports.SessionBinding, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		binding: binding,
		log:     log,
	}
}

// callOpts controls credential attachment and 401 recovery per call.
//   - bearer: attach Authorization: Bearer <token> when a token is held.
//   - retry:  on 401, refresh once through the session and replay once.
//
// Auth endpoints use neither; file upload rides the cookie only.
type callOpts struct {
	bearer bool
	retry  bool
}

var resourceCall = callOpts{bearer: true, retry: true}
var uploadCall = callOpts{bearer: false, retry: true}
var authCall = callOpts{bearer: false, retry: false}

// do dispatches one upstream request. body may be nil; contentType applies
// only when a body is present. When out is non-nil, a 2xx response body is
// JSON-decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any, opts callOpts) error {
	send := func(token string) (*http.Response, error) {
		target := c.baseURL + path
		if len(query) > 0 {
			target += "?" + query.Encode()
		}
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			return nil, err
		}
		if body != nil && contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return c.http.Do(req)
	}

	var generation uint64
	if opts.retry {
		generation = c.binding.TokenGeneration()
	}
	var token string
	if opts.bearer {
		token = c.binding.AccessToken()
	}

	resp, err := send(token)
	if err != nil {
		return fmt.Errorf("registry: %s %s: %w", method, path, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized && opts.retry {
		// One silent re-authentication per logical request, never more.
		original := drainError(resp)

		if rerr := c.binding.Reauthorize(ctx, generation); rerr != nil {
			metrics.TokenRecoveryTotal.WithLabelValues("failed").Inc()
			return original
		}

		var retryToken string
		if opts.bearer {
			retryToken = c.binding.AccessToken()
		}
		resp, err = send(retryToken)
		if err != nil {
			return fmt.Errorf("registry: %s %s (retry): %w", method, path, err)
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
		metrics.TokenRecoveryTotal.WithLabelValues("recovered").Inc()
		c.log.Debug().Str("method", method).Str("path", path).Msg("replayed request after token refresh")
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return readError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("registry: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// drainError consumes and closes the response, returning its APIError.
func drainError(resp *http.Response) *APIError {
	defer resp.Body.Close()
	return decodeError(resp)
}

func readError(resp *http.Response) *APIError {
	return decodeError(resp)
}

func decodeError(resp *http.Response) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any, opts callOpts) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out, opts)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any, opts callOpts) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out, opts)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any, opts callOpts) error {
	var body []byte
	var contentType string
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("registry: encode %s %s: %w", method, path, err)
		}
		body = b
		contentType = "application/json"
	}
	return c.do(ctx, method, path, nil, body, contentType, out, opts)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out, resourceCall)
}
