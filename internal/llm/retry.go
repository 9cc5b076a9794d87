package llm

import (
	"context"
	"errors"
	"time"
)

// ErrNoAttempts is returned by Retry when the policy allowed no attempts.
var ErrNoAttempts = errors.New("no attempts made")

// RetryPolicy is a bounded loop with a fixed pause between attempts.
// There is no backoff and no jitter.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Retry calls fn until it succeeds or MaxAttempts is reached and returns
// the last error. Configuration errors and context cancellation stop the
// loop immediately.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	lastErr := ErrNoAttempts

	for attempt := range p.MaxAttempts {
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}

		// Last attempt: return without sleeping.
		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	return zero, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var cfg *ErrConfiguration
	return !errors.As(err, &cfg)
}
