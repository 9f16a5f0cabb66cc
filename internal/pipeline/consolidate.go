package pipeline

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/pkg/stage"
)

// ConsolidateNode returns the consolidation stage node. It attempts one
// bounded refinement call to reconcile the two analysis documents; under
// the default fail-fast policy no retries are spent there, and its failure
// always falls back to the deterministic local merge. Only a schema-invalid
// merged record is fatal.
func ConsolidateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		sess, err := fromState[*Session](s, KeySession)
		if err != nil {
			return s, err
		}

		analysis, err := fromState[*facts.AnalysisDocument](s, KeyAnalysis)
		if err != nil {
			return s, err
		}

		var enrichment *facts.EnrichmentDocument
		if doc, err := fromState[*facts.EnrichmentDocument](s, KeyEnrichment); err == nil {
			enrichment = doc
		}

		outcome := stage.Run(
			ctx, StageConsolidation,
			rt.Options.Budgets.Refinement, rt.Options.Policy,
			func(c context.Context) (*facts.PartialFacts, error) {
				return rt.Refiner.Merge(c, analysis, enrichment)
			},
		)
		sess.Record(outcome.Name, outcome.Status, outcome.Duration, outcome.Err)

		var refined *facts.PartialFacts
		if outcome.Failed() {
			rt.Logger.WarnContext(
				ctx, "refinement failed, using local fallback merge",
				"session_id", sess.ID,
				"status", outcome.Status,
				"error", outcome.Err,
			)
		} else {
			refined = outcome.Value
		}

		record, control, err := facts.Consolidate(analysis, enrichment, refined)
		if err != nil {
			return s, stageError(StageConsolidation, CodeConsolidationSchemaInvalid, err)
		}

		rt.Logger.InfoContext(
			ctx, "consolidation complete",
			"session_id", sess.ID,
			"dominant_hex", record.Palette.DominantHex,
			"keep_list", len(control.LabelKeepList),
			"defaulted_fields", record.DefaultedFields,
		)

		s = s.Set(KeyFacts, record)
		s = s.Set(KeyControl, control)
		return s, nil
	})
}
