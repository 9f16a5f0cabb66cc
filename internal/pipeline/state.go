package pipeline

import (
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// fromState extracts a typed value from graph state, failing when the key
// is missing or holds an unexpected type.
func fromState[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s has unexpected type %T", key, val)
	}

	return v, nil
}
