package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrUnavailable is returned when a remote cache backend cannot be reached.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// RetryableError marks a transient failure, such as a refused connection
// while Redis restarts, that RetryWithBackoff should try again.
type RetryableError struct{ Err error }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return "retryable: " + e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or any error it wraps was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff parameters for RetryWithBackoff. retryDelay is a variable so tests
// can shorten it.
const retryAttempts = 3

var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails with an error not marked
// Retryable, or retryAttempts calls have failed. The wait between calls
// starts at retryDelay and doubles. ctx cancellation ends the wait early.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
