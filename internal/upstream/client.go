// Package upstream talks to the third-party HTTP services the bot relays data from.
package upstream

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

	"github.com/guttosm/giga-bot/internal/metrics"
)

const (
	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 8 << 20

	defaultTimeout = 15 * time.Second
)

var (
	// ErrStatus is matched by every non-2xx StatusError.
	ErrStatus = errors.New("upstream: unexpected status")
	// ErrMalformed indicates a response body that could not be interpreted.
	ErrMalformed = errors.New("upstream: malformed response")
)

// StatusError reports a non-success HTTP status from a provider.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Code)
}

// Is makes errors.Is(err, ErrStatus) true for any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Request describes a single upstream call.
type Request struct {
	// Provider labels metrics and errors.
	Provider string
	Method   string
	URL      string
	Query    url.Values
	Headers  map[string]string
	// Body is JSON-encoded when set.
	Body any
	// Timeout overrides the client default for this call.
	Timeout time.Duration
}

// Client performs JSON-over-HTTP calls with a per-call timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
	headers map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the default per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header sent on every call.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: defaultTimeout,
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes req and returns the response body of a 2xx response.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	start := time.Now()
	body, err := c.do(ctx, req)
	metrics.RecordUpstreamRequest(req.Provider, time.Since(start), err)
	return body, err
}

func (c *Client) do(ctx context.Context, req Request) ([]byte, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", req.Provider, err)
		}
		reader = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Provider, err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Provider: req.Provider, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", req.Provider, err)
	}
	return data, nil
}

// GetJSON performs a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, req Request, out any) error {
	req.Method = http.MethodGet
	data, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return decodeJSON(req.Provider, data, out)
}

// decodeJSON keeps numbers as json.Number so integers survive untouched.
func decodeJSON(provider string, data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", provider, ErrMalformed, err)
	}
	return nil
}

// CacheBusted appends a millisecond timestamp parameter so CDNs return a fresh copy.
func CacheBusted(rawURL string, now time.Time) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "t=" + strconv.FormatInt(now.UnixMilli(), 10)
}

// parseFloat accepts a JSON number or a numeric string.
func parseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// parseInt accepts an integral JSON number, a float (truncated) or a numeric string.
func parseInt(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		f, err := x.Float64()
		return int64(f), err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return i, err == nil
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}
