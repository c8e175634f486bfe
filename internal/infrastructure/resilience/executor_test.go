package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesRetryableErrors(t *testing.T) {
	e := NewExecutor(fastConfig())

	attempts := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentErrors(t *testing.T) {
	e := NewExecutor(fastConfig())

	attempts := 0
	permanent := errors.New("bad request")
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return permanent
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected single attempt, got %d", attempts)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	e := NewExecutor(fastConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("callback must not run with cancelled context")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.RetryMaxAttempts = 1
	e := NewExecutor(cfg)

	classify := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}
	boom := errors.New("down")
	for i := 0; i < 2; i++ {
		_ = e.Execute(context.Background(), "op", func(context.Context) error { return boom }, classify)
	}

	err := e.Execute(context.Background(), "op", func(context.Context) error { return nil }, classify)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}
