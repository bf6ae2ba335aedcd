package coingecko

import (
	"context"
	"errors"
	"fmt"
)

// ErrRateLimited matches any *RateLimitedError via errors.Is.
var ErrRateLimited = errors.New("rate limited")

// ErrUnknownAsset is returned when upstream has no price for the requested id.
var ErrUnknownAsset = errors.New("unknown asset")

const rateLimitHint = "API rate limit exceeded. Please try again in a few minutes."

// RateLimitedError reports that every attempt was answered with HTTP 429.
type RateLimitedError struct {
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return rateLimitHint
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// HTTPError is a non-2xx, non-429 upstream response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! Status: %d", e.StatusCode)
}

// NetworkError is a transport-level failure (DNS, connection, read).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UserMessage maps a pipeline error to the single message shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	var netErr *NetworkError
	switch {
	case errors.Is(err, ErrRateLimited):
		return rateLimitHint
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Market data provider rejected the request (status %d).", httpErr.StatusCode)
	case errors.As(err, &netErr):
		return "Unable to reach the market data provider. Check your connection and refresh."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Request cancelled."
	default:
		return err.Error()
	}
}
