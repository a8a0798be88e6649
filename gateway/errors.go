package gateway

import (
	"errors"
	"fmt"
	"time"
)

// GatewayError is the base error type for all failures crossing the gateway
// boundary.
type GatewayError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = fmt.Sprintf("[%s] %s", e.Provider, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// UnavailableError reports a network or backend failure: the model could not
// be reached or did not produce a completion. Retryable.
type UnavailableError struct{ GatewayError }

// RateLimitError reports provider throttling. Retryable; when RetryAfter is
// positive it is the provider-suggested wait before the next attempt.
type RateLimitError struct {
	GatewayError
	RetryAfter time.Duration
}

// AuthenticationError reports rejected credentials. Not retryable.
type AuthenticationError struct{ GatewayError }

// InvalidRequestError reports a request the provider refused as malformed.
// Not retryable.
type InvalidRequestError struct{ GatewayError }

// AbortError reports cancellation while waiting between retry attempts.
type AbortError struct{ GatewayError }

// IsRetryable reports whether the error is safe to retry at the gateway
// boundary. Only backend unavailability and throttling qualify; everything
// else fails the request immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return true
	}
	var rateLimited *RateLimitError
	return errors.As(err, &rateLimited)
}
