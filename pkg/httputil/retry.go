// Package httputil provides shared HTTP plumbing: a retry combinator with
// pluggable backoff, used by clients that talk to rate-limited APIs.
package httputil

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error as a RetryableError. Returns nil for a nil error.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// BackoffFunc computes the delay before the given retry attempt.
// Attempts are numbered starting at 1 (the delay after the first failure).
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff returns a BackoffFunc with delays of base^attempt
// seconds: for base 1.5 the delays grow 1.5s, 2.25s, 3.375s, ...
func ExponentialBackoff(base float64) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(math.Pow(base, float64(attempt)) * float64(time.Second))
	}
}

// ConstantBackoff returns a BackoffFunc with a fixed delay between attempts.
func ConstantBackoff(delay time.Duration) BackoffFunc {
	return func(int) time.Duration { return delay }
}

// Retry executes fn up to attempts times, sleeping backoff(attempt) between
// failed attempts (never after the last one). It only retries errors wrapped
// with [RetryableError]; other errors are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// while waiting.
func Retry(ctx context.Context, attempts int, backoff BackoffFunc, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 1; i <= attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(i)):
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with exponential 1.5^attempt second delays.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, ExponentialBackoff(1.5), fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
