package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents a pipeline stage that composes a prompt.
type Stage string

// Valid prompt stages.
const (
	StageAnalysis   Stage = "analysis"
	StageEnrichment Stage = "enrichment"
	StageRefinement Stage = "refinement"
	StageRender     Stage = "render"
)

var stages = []Stage{
	StageAnalysis,
	StageEnrichment,
	StageRefinement,
	StageRender,
}

// Stages returns the list of valid prompt stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known prompt stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
