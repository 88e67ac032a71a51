package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// NetworkError describes a failed retrieval. Status is zero when the
// request never produced an HTTP response.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether err is worth retrying: transport failures and
// server-side errors are, client errors are not.
func Retryable(err error) bool {
	ne, ok := err.(*NetworkError)
	if !ok {
		return false
	}
	return ne.Status == 0 || ne.Status >= 500
}

// Options configures a Client.
type Options struct {
	Proxies   []string
	Timeout   time.Duration
	Attempts  int
	BaseDelay time.Duration
}

// Client retrieves remote documents with proxy fallback and retries.
type Client struct {
	http      *http.Client
	proxies   []string
	timeout   time.Duration
	attempts  int
	baseDelay time.Duration
}

// NewClient builds a Client. Zero option fields fall back to one attempt,
// a 15s per-request timeout and a 1s base delay.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Second
	}
	return &Client{
		http:      &http.Client{},
		proxies:   opts.Proxies,
		timeout:   opts.Timeout,
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
	}
}

// Get fetches target and returns the response body. The origin is tried
// first, then each proxy in order; that whole chain is repeated with
// exponential backoff while failures remain retryable.
func (c *Client) Get(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		body, err := c.tryChain(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// tryChain walks the origin plus proxy list once and returns the first
// successful body. Every failure falls through to the next candidate; a
// proxy may succeed where the origin rejected the un-proxied request.
func (c *Client) tryChain(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for _, u := range c.candidates(target) {
		body, err := c.once(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) candidates(target string) []string {
	urls := make([]string, 0, 1+len(c.proxies))
	urls = append(urls, target)
	for _, p := range c.proxies {
		urls = append(urls, p+url.QueryEscape(target))
	}
	return urls
}

func (c *Client) once(ctx context.Context, u string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: u, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	return body, nil
}
