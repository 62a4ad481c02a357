package comicvine

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	transport    Transport
	httpClient   *http.Client
	timeout      time.Duration
	retries      int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	rateLimit    rate.Limit
	burst        int
	userAgent    string
	typeCache    *TypeCache
	typesTTL     time.Duration
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		baseURL:      APIURL,
		timeout:      DefaultTimeout,
		retryWaitMin: time.Second,
		retryWaitMax: 30 * time.Second,
		userAgent:    DefaultUserAgent,
		typesTTL:     DefaultTypesTTL,
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithHTTPClient sets the http.Client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetries enables transport-level retries for connection errors and 5xx
// responses. The client itself never retries.
func WithRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.retries = retries
		}
	}
}

// WithRateLimit throttles outgoing requests to limit per second.
func WithRateLimit(limit float64, burst int) Option {
	return func(o *clientOptions) {
		if limit > 0 {
			o.rateLimit = rate.Limit(limit)
			o.burst = burst
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithTypeCache shares an existing type cache with this client.
func WithTypeCache(cache *TypeCache) Option {
	return func(o *clientOptions) {
		o.typeCache = cache
	}
}

// WithTypesTTL sets the TTL of the client's own type cache. It has no
// effect when WithTypeCache is used.
func WithTypesTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		if ttl > 0 {
			o.typesTTL = ttl
		}
	}
}

// WithRetryWait bounds the backoff between transport retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *clientOptions) {
		if minWait > 0 && maxWait >= minWait {
			o.retryWaitMin = minWait
			o.retryWaitMax = maxWait
		}
	}
}
