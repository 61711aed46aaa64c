package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frimtec/hass-vzug/internal/logging"
)

const (
	// DefaultTimeout is the default per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// maxInflight caps concurrent requests against the device. The
	// embedded HTTP server chokes under higher parallel load.
	maxInflight = 3
)

// Client talks to a single V-ZUG appliance over its LAN HTTP API.
// The zero value is not usable; construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sem        chan struct{}

	// sleep is swappable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Whatever authentication the
// appliance needs must already be carried by this client's transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCredentials wraps the client's transport with HTTP basic auth.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.httpClient.Transport = &authTransport{creds: creds, base: c.httpClient.Transport}
	}
}

// NewClient creates a client for the appliance reachable at baseURL,
// e.g. "http://192.168.1.50".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sem:        make(chan struct{}, maxInflight),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the device base URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a single GET against <base>/<component>?<query>. It is the
// transport leaf: no retries, no parsing beyond reading the body.
func (c *Client) get(ctx context.Context, component Component, query string) ([]byte, error) {
	u := c.baseURL + "/" + string(component) + "?" + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return body, nil
}

// encodeQuery renders the caller parameters in order, then the command
// name and a cache-busting timestamp. The device ignores parameters it
// doesn't know.
func encodeQuery(params []Param, name string, now time.Time) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
		b.WriteByte('&')
	}
	b.WriteString("command=")
	b.WriteString(url.QueryEscape(name))
	b.WriteString("&_=")
	b.WriteString(strconv.FormatInt(now.Unix(), 10))
	return b.String()
}

// invoke executes one command with bounded concurrency, retry with
// exponential backoff, response validation and optional default-value
// substitution. Callers see exactly one of: a valid value, the declared
// default, or the last recorded error.
func invoke[T any](ctx context.Context, c *Client, req request[T]) (T, error) {
	var zero T

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-c.sem }()

	delay := req.retryDelay
	var lastErr error

	for attempt := 1; attempt <= req.attempts; attempt++ {
		logging.Debug("running command",
			zap.String("component", string(req.component)),
			zap.String("command", req.name),
			zap.Int("attempt", attempt),
		)

		v, err := attemptOnce(ctx, c, req)
		if err == nil {
			return v, nil
		}
		lastErr = err

		// A caller that gave up gets neither retries nor defaults.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Trusted() {
			logging.Debug("trusted status, not retrying",
				zap.String("command", req.name),
				zap.Int("status", statusErr.StatusCode),
			)
			break
		}

		if attempt == req.attempts {
			break
		}

		logging.Debug("command attempt failed",
			zap.String("command", req.name),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}

	if req.fallback != nil {
		logging.Warn("command failed, using default value",
			zap.String("command", req.name),
			zap.Error(lastErr),
		)
		return req.fallback(), nil
	}
	return zero, lastErr
}

// attemptOnce issues the GET and validates the response for a single try.
func attemptOnce[T any](ctx context.Context, c *Client, req request[T]) (T, error) {
	var zero T

	body, err := c.get(ctx, req.component, encodeQuery(req.params, req.name, time.Now()))
	if err != nil {
		return zero, err
	}

	if req.raw {
		// Raw commands decode to string by construction.
		v, ok := any(string(body)).(T)
		if !ok {
			return zero, &ValidationError{Reason: "raw command with non-string result type"}
		}
		return v, nil
	}

	// The device sets no content type worth trusting; parse unconditionally.
	data := bytes.TrimSpace(body)
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return zero, &ValidationError{Reason: fmt.Sprintf("body is not JSON: %v", err)}
	}

	if req.shape == ShapeArray && parsed == nil {
		// null-as-empty-list device quirk
		parsed = []any{}
		data = []byte("[]")
	}

	switch req.shape {
	case ShapeObject:
		if _, ok := parsed.(map[string]any); !ok {
			return zero, &ValidationError{Reason: fmt.Sprintf("expected JSON object, got %T", parsed)}
		}
	case ShapeArray:
		if _, ok := parsed.([]any); !ok {
			return zero, &ValidationError{Reason: fmt.Sprintf("expected JSON array, got %T", parsed)}
		}
	}

	if req.rejectEmpty && isEmpty(parsed) {
		return zero, &ValidationError{Reason: "empty response rejected"}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, &ValidationError{Reason: fmt.Sprintf("decoding %s response: %v", req.name, err)}
	}
	return v, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
