package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// StatusFunc receives human-readable progress while a request is retried.
type StatusFunc func(message string)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy bounds the attempts of a single request.
// Waits grow linearly with the attempt number and never carry jitter.
type RetryPolicy struct {
	MaxRetries     int
	RateLimitDelay time.Duration
	ErrorDelay     time.Duration
}

// DefaultRetryPolicy mirrors the provider's free-tier guidance.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		RateLimitDelay: 60 * time.Second,
		ErrorDelay:     2 * time.Second,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxRetries < 1 {
		return 1
	}
	return p.MaxRetries
}

// FetchWithRetry GETs url and returns the response body of the first 2xx answer.
//
// A 429 answer waits RateLimitDelay*attempt before the next attempt and ends in a
// *RateLimitedError once attempts run out. Any other failure waits ErrorDelay*attempt;
// on the final attempt the underlying *HTTPError or *NetworkError is returned unchanged.
// onStatus, when set, is called before every wait.
func (c *Client) FetchWithRetry(ctx context.Context, url string, onStatus StatusFunc) ([]byte, error) {
	maxAttempts := c.retry.attempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var wait time.Duration
		var message string
		var reason string

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
			if attempt == maxAttempts {
				return nil, &RateLimitedError{Attempts: attempt}
			}
			wait = c.retry.RateLimitDelay * time.Duration(attempt)
			reason = "rate_limited"
			message = fmt.Sprintf("Rate limited. Waiting %ds before retry (%d/%d)...", int(wait/time.Second), attempt, maxAttempts)
		} else {
			if attempt == maxAttempts {
				return nil, err
			}
			wait = c.retry.ErrorDelay * time.Duration(attempt)
			reason = "error"
			message = fmt.Sprintf("Connection error. Retrying in %ds (%d/%d)...", int(wait/time.Second), attempt, maxAttempts)
		}

		c.logger.Warn("upstream request failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		c.metrics.RetryObserved(reason)
		if onStatus != nil {
			onStatus(message)
		}

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("unexpected fetch retry failure")
}
