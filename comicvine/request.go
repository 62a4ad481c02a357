package comicvine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	payloadStatusOK = "OK"

	// StatusRateLimited is the HTTP status Comic Vine uses when throttling.
	StatusRateLimited = 420
)

// Response is a decoded API payload. Results is left raw; the facade decodes
// it into objects.
type Response struct {
	Error                string          `json:"error"`
	Limit                int             `json:"limit"`
	Offset               int             `json:"offset"`
	NumberOfPageResults  int             `json:"number_of_page_results"`
	NumberOfTotalResults int             `json:"number_of_total_results"`
	StatusCode           int             `json:"status_code"`
	Version              string          `json:"version"`
	Results              json.RawMessage `json:"results"`
}

// statusHandler turns the body of a response with a given HTTP status into a
// payload or a failure.
type statusHandler func(statusCode int, body []byte) (*Response, *APIError)

// statusHandlers maps HTTP status codes to their handling. Codes not listed
// are generic failures.
var statusHandlers = map[int]statusHandler{
	http.StatusOK:     decodePayload,
	StatusRateLimited: rateLimited,
}

// classify maps a raw HTTP response onto a payload or an *APIError. It does no
// I/O.
func classify(statusCode int, body []byte) (*Response, error) {
	handler, ok := statusHandlers[statusCode]
	if !ok {
		handler = unexpectedStatus
	}
	resp, apiErr := handler(statusCode, body)
	if apiErr != nil {
		return nil, apiErr
	}
	return resp, nil
}

func decodePayload(statusCode int, body []byte) (*Response, *APIError) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{
			Kind:       KindDecode,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	if resp.Error != payloadStatusOK {
		return nil, &APIError{
			Kind:          KindPayload,
			StatusCode:    statusCode,
			PayloadStatus: resp.StatusCode,
			Message:       resp.Error,
		}
	}
	return &resp, nil
}

func rateLimited(statusCode int, _ []byte) (*Response, *APIError) {
	return nil, &APIError{
		Kind:       KindRateLimited,
		StatusCode: statusCode,
		Message:    "rate limited: too many requests to the Comic Vine API",
	}
}

func unexpectedStatus(statusCode int, _ []byte) (*Response, *APIError) {
	return nil, &APIError{
		Kind:       KindHTTPStatus,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("API request failed with status %d", statusCode),
	}
}

// Request issues a request for resource. An "id" in params selects the detail
// address of that instance.
func (c *Client) Request(ctx context.Context, resource Resource, params Params) (*Response, error) {
	id, _ := params.String(ParamID)
	target, err := c.BuildBaseURL(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	return c.RequestURL(ctx, target, params)
}

// RequestURL issues a request to a fully-qualified API URL.
func (c *Client) RequestURL(ctx context.Context, rawURL string, params Params) (*Response, error) {
	query, dropped := mergeParams(c.apiKey, params)
	if len(dropped) > 0 {
		c.logger.Debug().Strs("keys", dropped).Msg("Ignoring reserved query parameters")
	}

	c.logger.Debug().
		Str("url", rawURL).
		Str("query", redactQuery(query)).
		Msg("Making Comic Vine API request")

	raw, err := c.transport.Get(ctx, rawURL, query)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: err.Error(), URL: rawURL}
	}
	if raw == nil {
		return nil, &APIError{Kind: KindTransport, Message: "empty response from transport", URL: rawURL}
	}

	resp, err := classify(raw.StatusCode, raw.Body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.URL = rawURL
		}
		c.logger.Debug().
			Err(err).
			Int("status", raw.StatusCode).
			Str("url", rawURL).
			Msg("Comic Vine API request failed")
		return nil, err
	}

	return resp, nil
}
