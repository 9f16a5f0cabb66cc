package collaborators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/internal/prompts"
	"github.com/JaimeStill/wraith/pkg/formatting"
)

type visionEnricher struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewEnricher creates the enrichment-analysis collaborator backed by a
// go-agents vision model. The prior structural analysis is passed as prompt
// context so the enrichment pass refines rather than repeats it.
func NewEnricher(cfg gaconfig.AgentConfig, logger *slog.Logger) Enricher {
	return &visionEnricher{
		cfg:    cfg,
		logger: logger.With("collaborator", "enrichment"),
	}
}

func (v *visionEnricher) Enrich(
	ctx context.Context,
	img ImagePayload,
	sessionID string,
	analysis *facts.AnalysisDocument,
) (*facts.EnrichmentDocument, error) {
	a, err := agent.New(&v.cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	dataURI, err := img.DataURI()
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.Compose(prompts.StageEnrichment, analysis)
	if err != nil {
		return nil, err
	}

	resp, err := a.Vision(ctx, prompt, []string{dataURI})
	if err != nil {
		return nil, fmt.Errorf("vision call: %w", err)
	}

	parsed, err := formatting.Parse[facts.EnrichmentDocument](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	parsed.SessionID = sessionID

	v.logger.InfoContext(
		ctx, "enrichment complete",
		"session_id", sessionID,
		"has_color_precision", parsed.ColorPrecision != nil,
		"has_fabric_behavior", parsed.FabricBehavior != nil,
	)

	return &parsed, nil
}
