package pipeline

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/pkg/stage"
)

// EnrichNode returns the enrichment-analysis stage node. Enrichment exists
// to refine the pipeline, not to gate it: on failure the node proceeds
// without an enrichment document and consolidation falls back to
// synthesized defaults.
func EnrichNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		sess, err := fromState[*Session](s, KeySession)
		if err != nil {
			return s, err
		}

		working, err := fromState[collaborators.ImagePayload](s, KeyWorking)
		if err != nil {
			return s, err
		}

		analysis, err := fromState[*facts.AnalysisDocument](s, KeyAnalysis)
		if err != nil {
			return s, err
		}

		outcome := stage.Run(
			ctx, StageEnrichment,
			rt.Options.Budgets.Enrichment, rt.Options.Policy,
			func(c context.Context) (*facts.EnrichmentDocument, error) {
				return rt.Enricher.Enrich(c, working, sess.ID.String(), analysis)
			},
		)
		sess.Record(outcome.Name, outcome.Status, outcome.Duration, outcome.Err)

		if outcome.Failed() {
			rt.Logger.WarnContext(
				ctx, "enrichment failed, consolidation will use analysis only",
				"session_id", sess.ID,
				"status", outcome.Status,
				"error", outcome.Err,
			)
			return s, nil
		}

		rt.Logger.InfoContext(
			ctx, "enrichment complete",
			"session_id", sess.ID,
		)

		s = s.Set(KeyEnrichment, outcome.Value)
		return s, nil
	})
}
