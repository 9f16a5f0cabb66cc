// Package stage provides a bounded executor for expensive remote calls.
// Every call runs under an explicit time budget, and the default posture
// on failure is to fall back to cheaper behavior rather than retry: AI
// calls burn real money and wall-clock time, so retries must be opted
// into per stage.
package stage

import (
	"context"
	"fmt"
	"time"
)

// Status is the terminal state of a stage execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusTimeout Status = "timeout"
	StatusFailed  Status = "failed"
)

// Policy controls retry behavior for a stage. The zero value is the
// recommended posture: no retries, fall back on first failure.
type Policy struct {
	// MaxRetries is the number of extra attempts after the first failure.
	// It is only honored when AllowExpensiveRetry is set.
	MaxRetries int

	// AllowExpensiveRetry opts the stage into re-issuing its remote call
	// after a failed attempt, timeouts included. Each attempt runs under
	// a fresh time budget.
	AllowExpensiveRetry bool
}

func (p Policy) attempts() int {
	if !p.AllowExpensiveRetry || p.MaxRetries < 0 {
		return 1
	}
	return 1 + p.MaxRetries
}

// Outcome is the result of running a stage to completion.
type Outcome[T any] struct {
	Name     string
	Status   Status
	Value    T
	Err      error
	Duration time.Duration
	Attempts int

	// FallbackRequested signals that the stage did not produce a value
	// and the caller should degrade to its documented fallback.
	FallbackRequested bool
}

// Failed reports whether the stage ended without a value.
func (o Outcome[T]) Failed() bool {
	return o.Status != StatusSuccess
}

// Run executes call under the given time budget, applying the retry
// policy. The context passed to call is cancelled when the budget
// expires, so a well-behaved call returns promptly on timeout.
func Run[T any](
	ctx context.Context,
	name string,
	timeout time.Duration,
	policy Policy,
	call func(context.Context) (T, error),
) Outcome[T] {
	outcome := Outcome[T]{Name: name}
	start := time.Now()

	if timeout <= 0 {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout)
		outcome.FallbackRequested = true
		return outcome
	}

	for attempt := 1; attempt <= policy.attempts(); attempt++ {
		outcome.Attempts = attempt

		value, err := invoke(ctx, timeout, call)
		if err == nil {
			outcome.Status = StatusSuccess
			outcome.Value = value
			outcome.Err = nil
			outcome.Duration = time.Since(start)
			return outcome
		}

		outcome.Err = err

		if isTimeout(err) {
			outcome.Status = StatusTimeout
		} else {
			outcome.Status = StatusFailed
		}

		// retrying is pointless once the caller's context is gone
		if ctx.Err() != nil {
			break
		}
	}

	outcome.Duration = time.Since(start)
	outcome.FallbackRequested = true
	return outcome
}

func invoke[T any](
	ctx context.Context,
	timeout time.Duration,
	call func(context.Context) (T, error),
) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := call(callCtx)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		var zero T
		if res.err != nil {
			if isTimeout(res.err) || callCtx.Err() != nil {
				return zero, fmt.Errorf("%w: %w", ErrTimeout, res.err)
			}
			return zero, fmt.Errorf("%w: %w", ErrCallFailed, res.err)
		}
		return res.value, nil
	case <-callCtx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrTimeout, callCtx.Err())
	}
}
