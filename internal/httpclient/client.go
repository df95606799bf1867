package httpclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps http.Client with outbound rate limiting, so free-tier data
// providers are not hammered by dashboard refreshes.
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// Options configure a new Client.
type Options struct {
	Timeout        time.Duration
	RequestsPerSec int
}

// New creates a rate-limited HTTP client.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		Limiter:    rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
	}
}

// Do performs the request after waiting for the rate limiter.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.HTTPClient.Do(req.WithContext(ctx))
}
