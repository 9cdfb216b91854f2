package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryable(error) ErrorClassification {
	return ErrorClassification{Retryable: true, RecordFailure: true}
}

func fatal(error) ErrorClassification {
	return ErrorClassification{Retryable: false, RecordFailure: true}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	exec := NewExecutor(Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     1.0,
		BreakerEnabled: false,
	})

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	}, retryable)

	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteStopsOnNonRetryable(t *testing.T) {
	exec := NewExecutor(Config{MaxAttempts: 5, InitialBackoff: time.Millisecond, BreakerEnabled: false})

	calls := 0
	sentinel := errors.New("bad request")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return sentinel
	}, fatal)

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	exec := NewExecutor(Config{MaxAttempts: 10, InitialBackoff: 50 * time.Millisecond, BreakerEnabled: false})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := exec.Execute(ctx, "op", func(context.Context) error {
		calls++
		return errors.New("flaky")
	}, retryable)

	if err == nil {
		t.Fatalf("expected error after cancellation")
	}
	if calls >= 10 {
		t.Fatalf("retry loop ignored cancellation, %d calls", calls)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	exec := NewExecutor(Config{
		MaxAttempts:         1,
		InitialBackoff:      time.Millisecond,
		BreakerEnabled:      true,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	})

	boom := errors.New("boom")
	for range 3 {
		_ = exec.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, retryable)
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		return nil
	}, retryable)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}
