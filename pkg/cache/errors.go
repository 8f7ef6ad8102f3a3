package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrNetwork marks a backend that could not be reached.
var ErrNetwork = errors.New("network error")

// retryAttempts bounds RetryWithBackoff; retryDelay is the wait after the
// first failure and doubles after each further one.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryableError flags a transient backend failure.
type RetryableError struct{ Err error }

// Retryable flags err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or anything it wraps was flagged by
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or runs out of attempts. The last error is returned.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= retryAttempts {
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

// classify flags transport failures from the Redis client as retryable.
// Server replies such as WRONGTYPE pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if ne := net.Error(nil); errors.As(err, &ne) {
		return Retryable(errors.Join(ErrNetwork, err))
	}
	return err
}
