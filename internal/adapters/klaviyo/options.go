package klaviyo

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/birdiedeals/birdie/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRevision pins the API revision header.
func WithRevision(rev string) Option {
	return func(c *Client) {
		if rev != "" {
			c.revision = rev
		}
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithBreaker tunes when the circuit opens and how long it stays open.
func WithBreaker(failureRatio float64, minRequests uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		if failureRatio > 0 && failureRatio <= 1 {
			c.failureRatio = failureRatio
		}
		if minRequests > 0 {
			c.minRequests = minRequests
		}
		if openTimeout > 0 {
			c.openTimeout = openTimeout
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
