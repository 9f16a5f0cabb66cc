package pipeline

import (
	"time"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/pkg/stage"
)

// Stage names, used for session records and terminal error reporting.
const (
	StageBackgroundRemoval = "BackgroundRemoval"
	StageAnalysis          = "Analysis"
	StageEnrichment        = "Enrichment"
	StageConsolidation     = "Consolidation"
	StageRendering         = "Rendering"
	StageQAGate            = "QAGate"
)

// State keys used by the orchestrator graph.
const (
	KeySession    = "session"
	KeyInput      = "input"
	KeyWorking    = "working_image"
	KeyCleanedRef = "cleaned_ref"
	KeyAnalysis   = "analysis"
	KeyEnrichment = "enrichment"
	KeyFacts      = "facts"
	KeyControl    = "control"
	KeyRender     = "render_state"
)

// Input carries the source images for one pipeline run. Clean signals that
// the garment image is already background-free, which makes the background
// removal stage unnecessary rather than an error.
type Input struct {
	Garment collaborators.ImagePayload
	OnModel *collaborators.ImagePayload
	Clean   bool
}

// StageBudgets holds the per-stage time budgets. Removal is short,
// analysis and enrichment medium, rendering longest.
type StageBudgets struct {
	Removal    time.Duration
	Analysis   time.Duration
	Enrichment time.Duration
	Refinement time.Duration
	Render     time.Duration
}

// Options controls stage execution and the render-quality gate for a
// pipeline Runtime.
type Options struct {
	Budgets      StageBudgets
	Policy       stage.Policy
	QAMaxRetries int
	QAMandatory  bool
}

// renderState accumulates the bounded render/QA loop's output.
type renderState struct {
	Ref      string
	Attempts int
	Passed   bool
	Reasons  []string
	Metadata collaborators.RenderMetadata
}

// Status is the terminal pipeline status.
type Status string

// Terminal pipeline statuses.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result is the single outward boundary of the pipeline.
type Result struct {
	SessionID        string              `json:"session_id"`
	Status           Status              `json:"status"`
	CleanedImageRef  string              `json:"cleaned_image_ref,omitempty"`
	RenderedImageRef string              `json:"rendered_image_ref,omitempty"`
	Facts            *facts.FactsRecord  `json:"facts,omitempty"`
	Control          *facts.ControlBlock `json:"control,omitempty"`
	StageTimings     []StageRecord       `json:"stage_timings"`
	QAFlagged        bool                `json:"qa_flagged,omitempty"`
	QAReasons        []string            `json:"qa_reasons,omitempty"`
	Error            *Error              `json:"error,omitempty"`
}
