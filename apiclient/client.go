package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no backend origin is configured.
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the Swiss tournament backend. It performs exactly one
// attempt per call: no retries, no caching, no client-side timeout.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	metrics    *Metrics
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a client for the given base origin. An empty origin falls back to DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend base URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend base URL %q has no host", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends one request and reports whether out was filled. out is left
// untouched on 204 No Content or an empty success body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return false, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(op, 0, time.Since(start))
		c.logger.DebugContext(ctx, "backend request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return false, newTransportError(err)
	}
	defer resp.Body.Close()

	c.metrics.observe(op, resp.StatusCode, time.Since(start))
	c.logger.DebugContext(ctx, "backend request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, err := readPayload(resp.Body)
		if err != nil {
			return false, &APIError{
				Message: fmt.Sprintf("Request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
				Status:  resp.StatusCode,
				Err:     err,
			}
		}
		return false, newStatusError(resp, payload)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, &APIError{
			Message: fmt.Sprintf("invalid response from backend: %v", err),
			Status:  resp.StatusCode,
			Err:     err,
		}
	}
	return true, nil
}

// readPayload returns nil for an empty body, the decoded JSON value when the
// body parses, and the raw text otherwise.
func readPayload(r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), nil
	}
	return v, nil
}
