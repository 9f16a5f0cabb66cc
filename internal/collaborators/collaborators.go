// Package collaborators defines the external service contracts the pipeline
// consumes (background removal, vision analysis, enrichment, consolidation
// refinement, and image generation) along with their default
// implementations. Vision-driven collaborators are backed by go-agents;
// image collaborators call their service endpoints directly.
package collaborators

import (
	"context"
	"fmt"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"

	"github.com/JaimeStill/wraith/internal/facts"
)

// ImagePayload carries raw image bytes alongside their content type so
// collaborators can encode them without re-inspection.
type ImagePayload struct {
	Data        []byte
	ContentType string
}

// DataURI encodes the payload as a data URI for vision and generation calls.
func (p ImagePayload) DataURI() (string, error) {
	format := document.PNG
	if p.ContentType == "image/jpeg" {
		format = document.JPEG
	}

	uri, err := encoding.EncodeImageDataURI(p.Data, format)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return uri, nil
}

// Remover produces a background-free version of a garment image.
type Remover interface {
	Remove(ctx context.Context, img ImagePayload) (ImagePayload, error)
}

// Analyzer produces the structural analysis document for a garment image.
// The first payload is the garment photo; an optional second payload is the
// on-model reference that informs shape and drape.
type Analyzer interface {
	Analyze(ctx context.Context, imgs []ImagePayload, sessionID string) (*facts.AnalysisDocument, error)
}

// Enricher produces the second, independent color and fabric analysis,
// given the structural analysis as context.
type Enricher interface {
	Enrich(
		ctx context.Context,
		img ImagePayload,
		sessionID string,
		analysis *facts.AnalysisDocument,
	) (*facts.EnrichmentDocument, error)
}

// Refiner reconciles the two analysis documents into partial facts.
// Its failure always falls back to the local merge, never a pipeline abort.
type Refiner interface {
	Merge(
		ctx context.Context,
		analysis *facts.AnalysisDocument,
		enrichment *facts.EnrichmentDocument,
	) (*facts.PartialFacts, error)
}

// LabelLegibility reports the rendered legibility score for one label.
type LabelLegibility struct {
	Text       string  `json:"text"`
	Legibility float64 `json:"legibility"`
}

// RenderMetadata holds the structural flags the render service reports
// about its output, consumed by the render gate.
type RenderMetadata struct {
	Background     string            `json:"background"`
	GhostMannequin bool              `json:"ghost_mannequin"`
	Labels         []LabelLegibility `json:"labels"`
}

// RenderResult couples rendered image bytes with the reported metadata.
type RenderResult struct {
	Image    ImagePayload
	Metadata RenderMetadata
}

// Renderer generates the ghost-mannequin product image from the
// consolidated facts, control block, and instruction text.
type Renderer interface {
	Render(
		ctx context.Context,
		img ImagePayload,
		record *facts.FactsRecord,
		control *facts.ControlBlock,
		instruction string,
	) (*RenderResult, error)
}
