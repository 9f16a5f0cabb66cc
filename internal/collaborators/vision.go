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

type visionAnalyzer struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewAnalyzer creates the vision-analysis collaborator backed by a
// go-agents vision model.
func NewAnalyzer(cfg gaconfig.AgentConfig, logger *slog.Logger) Analyzer {
	return &visionAnalyzer{
		cfg:    cfg,
		logger: logger.With("collaborator", "analysis"),
	}
}

func (v *visionAnalyzer) Analyze(
	ctx context.Context,
	imgs []ImagePayload,
	sessionID string,
) (*facts.AnalysisDocument, error) {
	a, err := agent.New(&v.cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	dataURIs := make([]string, 0, len(imgs))
	for _, img := range imgs {
		uri, err := img.DataURI()
		if err != nil {
			return nil, err
		}
		dataURIs = append(dataURIs, uri)
	}

	prompt, err := prompts.Compose(prompts.StageAnalysis, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.Vision(ctx, prompt, dataURIs)
	if err != nil {
		return nil, fmt.Errorf("vision call: %w", err)
	}

	parsed, err := formatting.Parse[facts.AnalysisDocument](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	parsed.SessionID = sessionID

	v.logger.InfoContext(
		ctx, "analysis complete",
		"session_id", sessionID,
		"labels", len(parsed.LabelsFound),
		"hollow_regions", len(parsed.HollowRegions),
	)

	return &parsed, nil
}
