// Package transport is the HTTP core shared by the auth gateway and the
// resource API clients. It owns the persisted cookie jar, attaches the
// anti-forgery token and an idempotency key to mutating requests, translates
// failures into typed API errors, and raises the forced-logout signal when
// the platform rejects an established session.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "github.com/shopkit-dev/shopctl/errors"
	"github.com/shopkit-dev/shopctl/log"
	"github.com/shopkit-dev/shopctl/logout"
)

const (
	headerCSRF        = "X-Csrf-Token"
	headerIdempotency = "X-Idempotency-Key"

	defaultTimeout = 15 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// JarPath is the file the cookie jar persists to. Empty keeps cookies
	// in memory only.
	JarPath string
	Timeout time.Duration
	// Signal, when set, is raised on 401 responses from non-auth endpoints.
	Signal *logout.Signal
	Logger log.Logger
}

// Client is the low-level platform API client.
type Client struct {
	base   *url.URL
	hc     *http.Client
	jar    *fileJar
	sig    *logout.Signal
	logger log.Logger

	mu        sync.Mutex
	csrfToken string
}

// New creates a Client, loading any previously persisted session cookies.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}
	jar, err := newFileJar(opts.JarPath)
	if err != nil {
		return nil, fmt.Errorf("open cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Client{
		base:   base,
		hc:     &http.Client{Timeout: timeout, Jar: jar},
		jar:    jar,
		sig:    opts.Signal,
		logger: logger,
	}, nil
}

// SetCSRFToken records the anti-forgery token attached to mutating requests.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}

// CSRFToken returns the currently held anti-forgery token.
func (c *Client) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

// HasSession reports whether persisted session cookies exist. It is a local
// check only; the cookies may still be rejected by the platform.
func (c *Client) HasSession() bool { return c.jar.HasSession() }

// ClearSession drops the anti-forgery token and all persisted cookies.
func (c *Client) ClearSession() error {
	c.SetCSRFToken("")
	return c.jar.Clear()
}

// RequestOption tweaks a single request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	noLogoutSignal bool
}

// WithoutLogoutSignal suppresses the forced-logout signal for this request.
// The auth endpoints use it: a 401 from login is a failed attempt, not a
// lost session.
func WithoutLogoutSignal() RequestOption {
	return func(cfg *requestConfig) { cfg.noLogoutSignal = true }
}

// Get issues a GET request and decodes the response payload into out.
func (c *Client) Get(ctx context.Context, op, path string, query url.Values, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, op, path string, body, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, op, path string, body, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, op, http.MethodPut, path, nil, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, op, path string, body, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, op, http.MethodPatch, path, nil, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, op, path string, opts ...RequestOption) error {
	return c.do(ctx, op, http.MethodDelete, path, nil, nil, nil, opts...)
}

// Upload posts r as a multipart file field and decodes the response into out.
func (c *Client) Upload(ctx context.Context, op, path, field, filename string, r io.Reader, out interface{}, opts ...RequestOption) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return apperr.Network(op, err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return apperr.Network(op, err)
	}
	if err := mw.Close(); err != nil {
		return apperr.Network(op, err)
	}
	return c.doRaw(ctx, op, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out, opts...)
}

// envelope is the platform API's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}, opts ...RequestOption) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.doRaw(ctx, op, method, path, query, reader, contentType, out, opts...)
}

func (c *Client) doRaw(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out interface{}, opts ...RequestOption) error {
	cfg := requestConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return apperr.Network(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(headerCSRF, token)
		}
		req.Header.Set(headerIdempotency, uuid.NewString())
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed before response", log.Fields{"op": op, "error": err.Error()})
		return apperr.Network(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperr.Network(op, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && !cfg.noLogoutSignal && c.sig != nil {
			c.logger.Warn(ctx, "session rejected by platform, raising forced logout", log.Fields{"op": op})
			c.sig.Raise()
		}
		return apperr.FromStatus(op, resp.StatusCode, env.Message)
	}

	if out == nil {
		return nil
	}
	payload := env.Data
	if len(payload) == 0 {
		// Endpoints without an envelope return the object directly.
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
