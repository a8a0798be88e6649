package gateway

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          time.Minute,
		Jitter:            false,
	}

	delays := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}

	for i, expected := range delays {
		got := policy.Delay(i)
		if got != expected {
			t.Errorf("attempt %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestRetryPolicyDelayWithMaxCap(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          5 * time.Second,
		Jitter:            false,
	}

	// Attempt 10 would be 1024s without the cap.
	got := policy.Delay(10)
	if got != 5*time.Second {
		t.Errorf("expected 5s (capped), got %v", got)
	}
}

func TestRetryPolicyDelayWithJitter(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          time.Minute,
		Jitter:            true,
	}

	// With jitter, delay should stay within +/- 50% of the base delay.
	for i := 0; i < 100; i++ {
		got := policy.Delay(0)
		if got < 500*time.Millisecond || got > 1500*time.Millisecond {
			t.Errorf("jittered delay out of range: %v", got)
		}
	}
}

func quickPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         time.Millisecond,
		MaxDelay:          time.Millisecond,
		BackoffMultiplier: 1,
		Jitter:            false,
	}
}

func TestRetrySuccessAfterFailures(t *testing.T) {
	callCount := 0
	result, err := Retry(context.Background(), quickPolicy(3), func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 3 {
			return "", &UnavailableError{GatewayError{Message: "server error"}}
		}
		return "success", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "success" {
		t.Errorf("expected %q, got %q", "success", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryNonRetryableError(t *testing.T) {
	callCount := 0
	_, err := Retry(context.Background(), quickPolicy(3), func(ctx context.Context) (string, error) {
		callCount++
		return "", &AuthenticationError{GatewayError{Message: "invalid key"}}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call (no retries for non-retryable), got %d", callCount)
	}
}

func TestRetryExhausted(t *testing.T) {
	callCount := 0
	_, err := Retry(context.Background(), quickPolicy(2), func(ctx context.Context) (string, error) {
		callCount++
		return "", &UnavailableError{GatewayError{Message: "server error"}}
	})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("expected last *UnavailableError, got %T", err)
	}
	if callCount != 3 { // 1 initial + 2 retries
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	policy := quickPolicy(2)
	policy.MaxDelay = 50 * time.Millisecond

	var observedDelay time.Duration
	policy.OnRetry = func(_ error, _ int, delay time.Duration) {
		observedDelay = delay
	}

	callCount := 0
	_, _ = Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		callCount++
		if callCount == 1 {
			return "", &RateLimitError{
				GatewayError: GatewayError{Message: "throttled"},
				RetryAfter:   20 * time.Millisecond,
			}
		}
		return "ok", nil
	})

	if observedDelay != 20*time.Millisecond {
		t.Errorf("expected RetryAfter to override the computed delay, got %v", observedDelay)
	}
}

func TestRetryGivesUpWhenRetryAfterExceedsMaxDelay(t *testing.T) {
	policy := quickPolicy(5)
	policy.MaxDelay = 10 * time.Millisecond

	callCount := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		callCount++
		return "", &RateLimitError{
			GatewayError: GatewayError{Message: "throttled"},
			RetryAfter:   time.Hour,
		}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call when Retry-After exceeds MaxDelay, got %d", callCount)
	}
}

func TestRetryCancelled(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:        5,
		BaseDelay:         time.Second,
		MaxDelay:          time.Second,
		BackoffMultiplier: 1,
		Jitter:            false,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Retry(ctx, policy, func(ctx context.Context) (string, error) {
		return "", &UnavailableError{GatewayError{Message: "always fails"}}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var abort *AbortError
	if !errors.As(err, &abort) {
		t.Errorf("expected *AbortError on cancellation, got %T", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected the abort to wrap context.Canceled")
	}
}

func TestRetryNoError(t *testing.T) {
	result, err := Retry(context.Background(), DefaultRetryPolicy(), func(ctx context.Context) (string, error) {
		return "immediate", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "immediate" {
		t.Errorf("expected %q, got %q", "immediate", result)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.MaxRetries != 2 {
		t.Errorf("expected max retries 2, got %d", p.MaxRetries)
	}
	if p.BaseDelay != time.Second {
		t.Errorf("expected base delay 1s, got %v", p.BaseDelay)
	}
	if p.MaxDelay != time.Minute {
		t.Errorf("expected max delay 1m, got %v", p.MaxDelay)
	}
	if p.BackoffMultiplier != 2.0 {
		t.Errorf("expected backoff multiplier 2.0, got %f", p.BackoffMultiplier)
	}
	if !p.Jitter {
		t.Error("expected jitter = true")
	}
}
