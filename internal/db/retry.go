package db

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
)

// ErrConflict is returned when an operation keeps losing row locks to
// concurrent writers after all retry attempts. Callers may retry once more
// or report a temporary failure; it must never be treated as success.
var ErrConflict = errors.New("conflicting concurrent update, retries exhausted")

const (
	maxAttempts  = 3
	retryBackoff = 25 * time.Millisecond
)

// WithRetry runs fn, retrying on Postgres serialization failures and
// deadlocks with a short backoff. Business-rule errors (insufficient funds,
// sold out, validation) are never retried: they pass through on the first
// attempt unchanged.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff << attempt):
			}
		}

		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return ErrConflict
}

// IsRetryable reports whether err is a transient lock-contention error.
// 40001 serialization_failure, 40P01 deadlock_detected, 55P03 lock_not_available.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}
