package gateway

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures bounded retry with exponential backoff. Retries
// happen only at the gateway boundary; the reasoning loop's state machine
// sees a single final outcome.
type RetryPolicy struct {
	MaxRetries        int           // retry attempts, not counting the initial call
	BaseDelay         time.Duration // delay before the first retry
	MaxDelay          time.Duration // upper bound on any computed delay
	BackoffMultiplier float64       // exponential backoff factor
	Jitter            bool          // randomize delays to avoid thundering herd
	OnRetry           func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns the standard policy: two retries starting at
// one second, doubling, capped at a minute.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         time.Second,
		MaxDelay:          time.Minute,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Delay calculates the backoff delay for attempt n (0-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := math.Min(float64(p.BaseDelay)*math.Pow(p.BackoffMultiplier, float64(attempt)), float64(p.MaxDelay))
	if p.Jitter {
		// +/- 50% jitter
		delay = delay * (0.5 + rand.Float64()) // rand in [0,1) -> [0.5, 1.5)
	}
	return time.Duration(delay)
}

// Retry executes fn with the configured retry policy. Only retryable errors
// are retried. A RateLimitError's RetryAfter overrides the computed backoff;
// when it exceeds MaxDelay the error is returned immediately. Context
// cancellation while waiting aborts with an AbortError wrapping ctx.Err().
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := fn(ctx)
	if err == nil {
		return result, nil
	}

	for attempt := 0; attempt < policy.MaxRetries; attempt++ {
		if !IsRetryable(err) {
			return zero, err
		}

		delay := policy.Delay(attempt)
		var rateLimited *RateLimitError
		if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
			if rateLimited.RetryAfter > policy.MaxDelay {
				// Provider asked for more patience than we have; give up now.
				return zero, err
			}
			delay = rateLimited.RetryAfter
		}

		if policy.OnRetry != nil {
			policy.OnRetry(err, attempt+1, delay)
		}

		select {
		case <-ctx.Done():
			return zero, &AbortError{GatewayError{Message: "request cancelled during retry", Cause: ctx.Err()}}
		case <-time.After(delay):
		}

		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
	}

	return zero, err
}
