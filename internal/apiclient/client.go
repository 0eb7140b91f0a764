// Package apiclient talks to the game server's HTTP API: the per-entity CRUD
// resources and the identity endpoints used by the session layer.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponse caps the body read from one API response.
const maxResponse = 8 << 20

// ErrResponseTooLarge is wrapped when a response body exceeds maxResponse.
var ErrResponseTooLarge = errors.New("apiclient: response too large")

// TokenSource returns the bearer token to attach, or "" for anonymous calls.
type TokenSource func() string

type Client struct {
	base  *url.URL
	http  *http.Client
	token TokenSource
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTokenSource attaches "Authorization: Bearer" to every request when the source yields a token.
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.token = ts } }

// New builds a client rooted at baseURL (e.g. http://localhost:3000).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// WithToken returns a shallow copy that authenticates with ts.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.token = ts
	return &cp
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + "/" + strings.TrimLeft(path, "/")
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any, bearer string) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" && c.token != nil {
		bearer = c.token()
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse+1))
	if err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if len(raw) > maxResponse {
		return &Error{Method: method, Path: path, Status: resp.StatusCode,
			Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, maxResponse)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(method, path, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
