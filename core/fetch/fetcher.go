// Package fetch performs the pipeline's network I/O: page bodies and
// candidate images. Every request is bounded by the client timeout; a
// slow origin degrades to "no result" instead of starving the caller.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/daye-p/sizepipe/core"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "SizePipe/1.0 (https://github.com/daye-p/sizepipe)"
)

// Client fetches pages and images over HTTP.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.http.SetHeader("User-Agent", ua)
		}
	}
}

// WithLogger attaches a logger; the default is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Client with sensible scraping defaults.
func New(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("User-Agent", defaultUserAgent).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page retrieves the body of the given URL.
func (c *Client) Page(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), url)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}, nil
}
