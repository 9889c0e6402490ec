package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
)

const (
	DefaultBaseURL  = "https://liquipedia.net"
	UserAgent       = "liquipedia-results/1.0 (github.com/pfrederiksen/liquipedia-results)"
	Timeout         = 30 * time.Second
	DefaultThrottle = 2 * time.Second
	MaxRetries      = 3
)

// HTTPProvider fetches pages from the live wiki
type HTTPProvider struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	throttle   time.Duration
	newBackOff func() backoff.BackOff

	mu   sync.Mutex
	last time.Time
}

// Option configures an HTTPProvider
type Option func(*HTTPProvider)

// WithBaseURL points the provider at another wiki host
func WithBaseURL(url string) Option {
	return func(p *HTTPProvider) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent overrides the default user agent
func WithUserAgent(ua string) Option {
	return func(p *HTTPProvider) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithThrottle sets the minimum interval between two requests
func WithThrottle(d time.Duration) Option {
	return func(p *HTTPProvider) {
		p.throttle = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPProvider) {
		p.client = c
	}
}

// WithBackOff replaces the retry schedule; the retry limit still applies
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(p *HTTPProvider) {
		p.newBackOff = newBackOff
	}
}

// NewHTTP creates a provider for the live wiki
func NewHTTP(opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
		throttle:  DefaultThrottle,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch requests path and parses the response. Rate limiting (429) and server
// errors are retried up to MaxRetries times; any other non-200 status fails
// immediately with a *TransportError.
func (p *HTTPProvider) Fetch(ctx context.Context, path string) (*goquery.Document, error) {
	start := time.Now()
	var doc *goquery.Document

	operation := func() error {
		if err := p.wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		d, err := p.fetchOnce(ctx, path)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	notify := func(err error, delay time.Duration) {
		logger.IncrCounter("provider.retries")
		logger.Warn("Retrying page fetch", logger.Fields{
			"path":  path,
			"delay": delay.String(),
		})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(), MaxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		logger.IncrCounter("provider.failures")
		return nil, err
	}

	logger.RecordTiming("provider.fetch", time.Since(start))
	logger.Debug("Fetched page", logger.Fields{"path": path})
	return doc, nil
}

func (p *HTTPProvider) fetchOnce(ctx context.Context, path string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("fetching page: %w", err))
		}
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		te := &TransportError{StatusCode: resp.StatusCode, Path: path}
		if te.retryable() {
			return nil, te
		}
		return nil, backoff.Permanent(te)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parsing HTML: %w", err))
	}
	return doc, nil
}

// wait blocks until the throttle interval since the previous request has passed
func (p *HTTPProvider) wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.throttle > 0 && !p.last.IsZero() {
		if delay := p.throttle - time.Since(p.last); delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	p.last = time.Now()
	return nil
}
