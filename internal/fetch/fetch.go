// Package fetch provides the retry-capable HTTP client the providers use to
// pull pages, resource bytes, and content-type metadata. Transient failures
// (5xx, timeouts) are retried with a linear backoff; everything else is
// returned to the caller unchanged.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent identifies the tool on outgoing requests.
const DefaultUserAgent = "paper2remarkable/1.0 (+https://github.com/delaere/paper2remarkable)"

// Client wraps http.Client with per-request timeouts and bounded retry on
// transient errors. The zero value is usable: one attempt, no timeout.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each individual attempt.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating the caller's client.
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a GET with context, user-agent, and bounded retry for transient
// errors. It returns the response body and the declared content type.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		body, ct, err := c.tryOnce(ctx, rawURL)
		if err == nil {
			return body, ct, nil
		}
		if !isTransient(err) || i == attempts-1 {
			return nil, "", err
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, "", lastErr
}

// Page retrieves the full page text for rawURL.
func (c *Client) Page(ctx context.Context, rawURL string) (string, error) {
	body, _, err := c.Get(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch page %s: %w", rawURL, err)
	}
	return string(body), nil
}

// ContentType looks up the declared content type of rawURL via a HEAD
// request, retrying transient failures. The lookup is inherently optional:
// an unreachable server or one that declares no type yields "", not an
// error, so callers gate on the empty string.
func (c *Client) ContentType(ctx context.Context, rawURL string) string {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		ct, err := c.headOnce(ctx, rawURL)
		if err == nil {
			return ct
		}
		if !isTransient(err) || i == attempts-1 {
			return ""
		}
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string) (*http.Request, context.CancelFunc, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early.
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, nil, fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	cancel := context.CancelFunc(func() {})
	if c.PerRequestTimeout > 0 {
		var tctx context.Context
		tctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		req = req.WithContext(tctx)
	}
	return req, cancel, nil
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, cancel, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, "", err
	}
	defer cancel()

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, "", fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return b, contentType, nil
}

func (c *Client) headOnce(ctx context.Context, rawURL string) (string, error) {
	req, cancel, err := c.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		return "", err
	}
	defer cancel()

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return "", fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), nil
}

func isTransient(err error) bool {
	// Treat HTTP 5xx and context deadline as transient.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "server error:")
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects.
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
