// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with the configured headers and cookies
// attached to every outbound request.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// defaultUserAgent mimics a desktop browser; several hosts refuse
	// plain library user agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36 Edg/119.0.0.0"

	// maxErrorBody caps how much of an error response we keep around.
	maxErrorBody = 64 * 1024
)

// Options configures a Client.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
	Cookies   []*http.Cookie
}

// Client fetches web resources via HTTP.
type Client struct {
	client *http.Client
	opts   Options
}

// New creates a Client. Zero-value options get sensible defaults.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// HTTPError is returned for non-2xx responses. Body holds a prefix of
// the response body so callers can render error pages.
type HTTPError struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Fetch retrieves the given URL. Configured headers and cookies are set
// on the request; the User-Agent header always is. The caller must close
// the response body on success.
func (c *Client) Fetch(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}
	for _, cookie := range c.opts.Cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &HTTPError{
			URL:         url,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        string(body),
		}
	}

	return resp, nil
}
