package auth

import (
	"context"
	"errors"
	"time"
)

// Authentication retries are bounded: 3 attempts with linear backoff,
// then the failure is surfaced to the user.
const (
	maxAuthAttempts = 3
	backoffStep     = 500 * time.Millisecond
)

// WithRetry runs an auth-dependent operation, retrying AuthError
// failures up to the attempt bound. Non-auth errors and context
// cancellation return immediately.
func WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAuthAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		var authErr *AuthError
		if !errors.As(lastErr, &authErr) {
			return lastErr
		}
		if attempt == maxAuthAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoffStep):
		}
	}
	return lastErr
}
