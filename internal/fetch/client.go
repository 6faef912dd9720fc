// Package fetch provides a rate-limited HTTP client that returns parsed
// HTML documents and remembers which URLs it has already handed out.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/willf/bloom"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// userAgents is rotated across requests so one client does not present
// a single fingerprint to every source.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Client fetches pages for a single source. Requests pass through a
// token bucket sized from the source's requests-per-minute budget.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	uaIndex int
	seen    map[string]struct{}
	filter  *bloom.BloomFilter
}

// NewClient builds a client allowing ratePerMinute requests per minute.
// A zero or negative rate falls back to 30 req/min.
func NewClient(ratePerMinute int, timeout time.Duration) *Client {
	if ratePerMinute <= 0 {
		ratePerMinute = 30
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1),
		seen:    make(map[string]struct{}),
		filter:  bloom.New(100000, 5),
	}
}

// Wait blocks until the rate limiter admits one more request. Exposed
// for callers that fetch through other transports (feed parsers).
func (c *Client) Wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// Fetch retrieves a URL and parses the body as HTML. The response body
// is decoded from its declared charset before parsing.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &Error{Kind: ErrParse, URL: url, Err: fmt.Errorf("charset: %w", err)}
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, &Error{Kind: ErrParse, URL: url, Err: err}
	}
	return doc, nil
}

// FetchJSON retrieves a URL and decodes the JSON body into v.
func (c *Client) FetchJSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Kind: ErrParse, URL: url, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: ErrTimeout, URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: classify(err), URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &Error{Kind: ErrNetwork, URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return resp, nil
}

func (c *Client) nextUserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ua := userAgents[c.uaIndex%len(userAgents)]
	c.uaIndex++
	return ua
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrTimeout
	}
	return ErrNetwork
}

// Seen reports whether a URL was already marked. The bloom filter
// short-circuits the common negative case; positives are confirmed
// against the exact set.
func (c *Client) Seen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filter.Test([]byte(url)) {
		return false
	}
	_, ok := c.seen[url]
	return ok
}

// MarkSeen records a URL so later fetch passes skip it.
func (c *Client) MarkSeen(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Add([]byte(url))
	c.seen[url] = struct{}{}
}

// SeenCount returns how many distinct URLs have been marked.
func (c *Client) SeenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
