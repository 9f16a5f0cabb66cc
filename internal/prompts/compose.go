// Package prompts provides per-stage instruction text and prompt
// composition for the pipeline's collaborator calls.
package prompts

import (
	"encoding/json"
	"fmt"
)

// Compose builds the full prompt for a stage: the stage instructions,
// followed by the serialized context document when one is provided (prior
// analysis state, consolidated facts, or QA feedback).
func Compose(stage Stage, context any) (string, error) {
	text, err := Instructions(stage)
	if err != nil {
		return "", err
	}

	if context == nil {
		return text, nil
	}

	data, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal prompt context: %w", err)
	}

	return fmt.Sprintf("%s\n\nContext:\n%s", text, data), nil
}
