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

type refinementContext struct {
	Analysis   *facts.AnalysisDocument   `json:"analysis"`
	Enrichment *facts.EnrichmentDocument `json:"enrichment,omitempty"`
}

type chatRefiner struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewRefiner creates the consolidation-refinement collaborator. A single
// chat inference (no images) reconciles the two analysis documents into
// partial facts; any failure falls back to the local merge.
func NewRefiner(cfg gaconfig.AgentConfig, logger *slog.Logger) Refiner {
	return &chatRefiner{
		cfg:    cfg,
		logger: logger.With("collaborator", "refinement"),
	}
}

func (r *chatRefiner) Merge(
	ctx context.Context,
	analysis *facts.AnalysisDocument,
	enrichment *facts.EnrichmentDocument,
) (*facts.PartialFacts, error) {
	a, err := agent.New(&r.cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	prompt, err := prompts.Compose(prompts.StageRefinement, refinementContext{
		Analysis:   analysis,
		Enrichment: enrichment,
	})
	if err != nil {
		return nil, err
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[facts.PartialFacts](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	r.logger.InfoContext(
		ctx, "refinement complete",
		"has_palette", parsed.Palette != nil,
	)

	return &parsed, nil
}
