// Package pipeline implements the ghost-mannequin rendering pipeline: a
// sequential state machine that drives a Session through background
// removal, analysis, enrichment, consolidation, rendering, and a bounded
// render-quality gate.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/pkg/stage"
)

// Code is a stable, machine-readable pipeline error code.
type Code string

// Terminal pipeline error codes.
const (
	CodeStageTimeout               Code = "STAGE_TIMEOUT"
	CodeStageFailed                Code = "STAGE_FAILED"
	CodeConsolidationSchemaInvalid Code = "CONSOLIDATION_SCHEMA_INVALID"
	CodeRenderQAExhausted          Code = "RENDER_QA_EXHAUSTED"
	CodeClientMisconfigured        Code = "CLIENT_MISCONFIGURED"
)

// Error is a terminal pipeline failure carrying the originating stage and a
// stable code. Raw collaborator errors are never surfaced directly; they
// are summarized into Message.
type Error struct {
	Stage   string `json:"stage"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Code, e.Message)
}

func stageError(stageName string, code Code, err error) *Error {
	return &Error{
		Stage:   stageName,
		Code:    code,
		Message: err.Error(),
	}
}

// codeForOutcome maps a fatal stage outcome to its terminal error code.
func codeForOutcome(status stage.Status, err error) Code {
	if errors.Is(err, collaborators.ErrNotConfigured) {
		return CodeClientMisconfigured
	}
	if status == stage.StatusTimeout {
		return CodeStageTimeout
	}
	return CodeStageFailed
}

// ErrEmptyGarment indicates a pipeline request without a garment image.
var ErrEmptyGarment = errors.New("garment image required")
