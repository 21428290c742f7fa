package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// RetryableError marks a transient backend failure.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err so RetryWithBackoff tries again. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff is the retry schedule for Redis calls.
type backoff struct {
	attempts int
	initial  time.Duration
}

var redisBackoff = backoff{attempts: 3, initial: 100 * time.Millisecond}

// RetryWithBackoff runs fn until it succeeds, fails permanently or the
// attempts run out, doubling the wait after each retryable failure.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return redisBackoff.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	wait := b.initial
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.attempts {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
