package prompts

import "errors"

// ErrInvalidStage indicates an unrecognized pipeline stage value.
var ErrInvalidStage = errors.New("invalid prompt stage")
