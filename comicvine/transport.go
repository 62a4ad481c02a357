package comicvine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the per-request timeout of the default transport.
const DefaultTimeout = 30 * time.Second

// RawResponse is what a Transport hands back: the status code and raw body.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Transport performs the GET requests issued by the client. Implementations
// return an error only when no HTTP response was obtained.
type Transport interface {
	Get(ctx context.Context, rawURL string, query url.Values) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, rawURL string, query url.Values) (*RawResponse, error)

// Get calls f.
func (f TransportFunc) Get(ctx context.Context, rawURL string, query url.Values) (*RawResponse, error) {
	return f(ctx, rawURL, query)
}

// HTTPTransport is the default Transport, built on go-retryablehttp.
// Retries are off unless configured, and every response is passed through
// so the client can classify it.
type HTTPTransport struct {
	client    *retryablehttp.Client
	limiter   *rate.Limiter
	userAgent string
	logger    zerolog.Logger
}

// NewHTTPTransport creates a transport from the resolved client options.
func NewHTTPTransport(logger zerolog.Logger, o *clientOptions) *HTTPTransport {
	rc := retryablehttp.NewClient()
	if o.httpClient != nil {
		rc.HTTPClient = o.httpClient
	} else {
		rc.HTTPClient.Timeout = o.timeout
	}
	rc.RetryMax = o.retries
	rc.RetryWaitMin = o.retryWaitMin
	rc.RetryWaitMax = o.retryWaitMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = &leveledLogger{logger: logger}

	t := &HTTPTransport{
		client:    rc,
		userAgent: o.userAgent,
		logger:    logger,
	}
	if o.rateLimit > 0 {
		t.limiter = rate.NewLimiter(o.rateLimit, max(o.burst, 1))
	}
	return t
}

// Get performs a GET request to rawURL with the encoded query attached.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string, query url.Values) (*RawResponse, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := rawURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// leveledLogger routes retryablehttp's logging through zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(scrubFields(keysAndValues)).Msg(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(scrubFields(keysAndValues)).Msg(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Trace().Fields(scrubFields(keysAndValues)).Msg(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(scrubFields(keysAndValues)).Msg(msg)
}

// scrubFields masks the api_key in any URL-like value retryablehttp logs.
func scrubFields(keysAndValues []any) []any {
	out := make([]any, len(keysAndValues))
	for i, v := range keysAndValues {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case fmt.Stringer:
			s = val.String()
		default:
			out[i] = v
			continue
		}
		out[i] = scrubURL(s)
	}
	return out
}

func scrubURL(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.RawQuery == "" {
		return s
	}
	q := u.Query()
	if !q.Has(ParamAPIKey) {
		return s
	}
	u.RawQuery = redactQuery(q)
	return u.String()
}
