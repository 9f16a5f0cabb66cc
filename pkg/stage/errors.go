package stage

import (
	"context"
	"errors"
)

var (
	// ErrTimeout indicates the stage exhausted its time budget.
	ErrTimeout = errors.New("stage timeout")

	// ErrCallFailed indicates the stage call returned an error before
	// its budget expired.
	ErrCallFailed = errors.New("stage call failed")

	// ErrInvalidTimeout indicates a non-positive time budget.
	ErrInvalidTimeout = errors.New("invalid stage timeout")
)

func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}
