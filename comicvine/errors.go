package comicvine

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid comicvine configuration")
	// ErrResourceNotSupported indicates a resource name outside the registry
	ErrResourceNotSupported = errors.New("resource not supported")
	// ErrTypeNotFound indicates no type descriptor exists for a detail resource
	ErrTypeNotFound = errors.New("type descriptor not found")
	// ErrRateLimited indicates the API answered with status 420
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrNoMorePages indicates a page request beyond the ends of a list
	ErrNoMorePages = errors.New("no more pages")
	// ErrNoDetailURL indicates an object without an api_detail_url
	ErrNoDetailURL = errors.New("object has no api_detail_url")
)

// ErrorKind classifies why a request to the API failed.
type ErrorKind int

const (
	// KindTransport is a failure of the underlying HTTP call
	KindTransport ErrorKind = iota
	// KindPayload is an HTTP 200 whose payload status is not "OK"
	KindPayload
	// KindRateLimited is an HTTP 420
	KindRateLimited
	// KindHTTPStatus is any other non-200 status
	KindHTTPStatus
	// KindDecode is an HTTP 200 whose body is not valid JSON
	KindDecode
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindPayload:
		return "payload"
	case KindRateLimited:
		return "rate_limited"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// APIError is returned for every failed request to the Comic Vine API.
// Message carries the specific cause: the transport's message, the payload's
// error field, or a description of the HTTP status.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	// PayloadStatus is the status_code field of a non-OK payload.
	PayloadStatus int
	Message       string
	URL           string
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch e.Kind {
	case KindHTTPStatus, KindRateLimited:
		return fmt.Sprintf("comicvine API error: status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("comicvine API error: %s", e.Message)
	}
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Kind == KindRateLimited
}

// IsRateLimited checks if the error indicates the API throttled the request
func (e *APIError) IsRateLimited() bool {
	return e.Kind == KindRateLimited
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
