package stage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/wraith/pkg/stage"
)

func TestRunSuccess(t *testing.T) {
	outcome := stage.Run(
		context.Background(), "test", time.Second, stage.Policy{},
		func(ctx context.Context) (int, error) {
			return 42, nil
		},
	)

	if outcome.Failed() {
		t.Fatalf("outcome failed: %v", outcome.Err)
	}
	if outcome.Status != stage.StatusSuccess {
		t.Errorf("status = %s, want success", outcome.Status)
	}
	if outcome.Value != 42 {
		t.Errorf("value = %d, want 42", outcome.Value)
	}
	if outcome.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", outcome.Attempts)
	}
	if outcome.FallbackRequested {
		t.Error("fallback requested on success")
	}
}

func TestRunFailure(t *testing.T) {
	boom := errors.New("boom")

	outcome := stage.Run(
		context.Background(), "test", time.Second, stage.Policy{},
		func(ctx context.Context) (int, error) {
			return 0, boom
		},
	)

	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	if outcome.Status != stage.StatusFailed {
		t.Errorf("status = %s, want failed", outcome.Status)
	}
	if !errors.Is(outcome.Err, stage.ErrCallFailed) {
		t.Errorf("err = %v, want ErrCallFailed", outcome.Err)
	}
	if !errors.Is(outcome.Err, boom) {
		t.Errorf("err = %v, want wrapped cause", outcome.Err)
	}
	if !outcome.FallbackRequested {
		t.Error("fallback not requested")
	}
	if outcome.Attempts != 1 {
		t.Errorf("attempts = %d, want 1 under fail-fast policy", outcome.Attempts)
	}
}

func TestRunTimeout(t *testing.T) {
	outcome := stage.Run(
		context.Background(), "test", 10*time.Millisecond, stage.Policy{},
		func(ctx context.Context) (int, error) {
			select {
			case <-time.After(5 * time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		},
	)

	if outcome.Status != stage.StatusTimeout {
		t.Fatalf("status = %s, want timeout", outcome.Status)
	}
	if !errors.Is(outcome.Err, stage.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", outcome.Err)
	}
	if !outcome.FallbackRequested {
		t.Error("fallback not requested")
	}
}

func TestRunRetries(t *testing.T) {
	calls := 0
	policy := stage.Policy{MaxRetries: 2, AllowExpensiveRetry: true}

	outcome := stage.Run(
		context.Background(), "test", time.Second, policy,
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("transient")
			}
			return 7, nil
		},
	)

	if outcome.Failed() {
		t.Fatalf("outcome failed: %v", outcome.Err)
	}
	if outcome.Value != 7 {
		t.Errorf("value = %d, want 7", outcome.Value)
	}
	if outcome.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Attempts)
	}
}

func TestRunRetriesExhausted(t *testing.T) {
	calls := 0
	policy := stage.Policy{MaxRetries: 2, AllowExpensiveRetry: true}

	outcome := stage.Run(
		context.Background(), "test", time.Second, policy,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("persistent")
		},
	)

	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if outcome.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Attempts)
	}
}

func TestRunNoRetryWithoutOptIn(t *testing.T) {
	calls := 0
	policy := stage.Policy{MaxRetries: 5}

	stage.Run(
		context.Background(), "test", time.Second, policy,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("boom")
		},
	)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 without AllowExpensiveRetry", calls)
	}
}

func TestRunRetriesTimeouts(t *testing.T) {
	calls := 0
	policy := stage.Policy{MaxRetries: 2, AllowExpensiveRetry: true}

	outcome := stage.Run(
		context.Background(), "test", 10*time.Millisecond, policy,
		func(ctx context.Context) (int, error) {
			calls++
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)

	if outcome.Status != stage.StatusTimeout {
		t.Fatalf("status = %s, want timeout", outcome.Status)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (each attempt gets its own budget)", calls)
	}
	if outcome.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Attempts)
	}
}

func TestRunTimeoutThenSuccess(t *testing.T) {
	calls := 0
	policy := stage.Policy{MaxRetries: 1, AllowExpensiveRetry: true}

	outcome := stage.Run(
		context.Background(), "test", 20*time.Millisecond, policy,
		func(ctx context.Context) (int, error) {
			calls++
			if calls == 1 {
				<-ctx.Done()
				return 0, ctx.Err()
			}
			return 9, nil
		},
	)

	if outcome.Failed() {
		t.Fatalf("outcome failed: %v", outcome.Err)
	}
	if outcome.Value != 9 {
		t.Errorf("value = %d, want 9", outcome.Value)
	}
	if outcome.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", outcome.Attempts)
	}
}

func TestRunNoRetryAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	policy := stage.Policy{MaxRetries: 5, AllowExpensiveRetry: true}

	outcome := stage.Run(
		ctx, "test", time.Second, policy,
		func(ctx context.Context) (int, error) {
			calls++
			cancel()
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)

	if !outcome.Failed() {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after caller cancellation", calls)
	}
}

func TestRunInvalidTimeout(t *testing.T) {
	outcome := stage.Run(
		context.Background(), "test", 0, stage.Policy{},
		func(ctx context.Context) (int, error) {
			t.Fatal("call should not run with an invalid budget")
			return 0, nil
		},
	)

	if outcome.Status != stage.StatusFailed {
		t.Errorf("status = %s, want failed", outcome.Status)
	}
	if !errors.Is(outcome.Err, stage.ErrInvalidTimeout) {
		t.Errorf("err = %v, want ErrInvalidTimeout", outcome.Err)
	}
	if !outcome.FallbackRequested {
		t.Error("fallback not requested")
	}
}
