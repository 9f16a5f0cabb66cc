package pipeline

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/pkg/stage"
)

// AnalyzeNode returns the vision-analysis stage node. Analysis failure is
// fatal: labels, preserve details, and hollow regions have no safe default,
// and inventing them would corrupt the output.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		sess, err := fromState[*Session](s, KeySession)
		if err != nil {
			return s, err
		}

		input, err := fromState[Input](s, KeyInput)
		if err != nil {
			return s, err
		}

		working, err := fromState[collaborators.ImagePayload](s, KeyWorking)
		if err != nil {
			return s, err
		}

		imgs := []collaborators.ImagePayload{working}
		if input.OnModel != nil {
			imgs = append(imgs, *input.OnModel)
		}

		outcome := stage.Run(
			ctx, StageAnalysis,
			rt.Options.Budgets.Analysis, rt.Options.Policy,
			func(c context.Context) (*facts.AnalysisDocument, error) {
				return rt.Analyzer.Analyze(c, imgs, sess.ID.String())
			},
		)
		sess.Record(outcome.Name, outcome.Status, outcome.Duration, outcome.Err)

		if outcome.Failed() {
			return s, stageError(StageAnalysis, codeForOutcome(outcome.Status, outcome.Err), outcome.Err)
		}

		rt.Logger.InfoContext(
			ctx, "analysis complete",
			"session_id", sess.ID,
			"labels", len(outcome.Value.LabelsFound),
		)

		s = s.Set(KeyAnalysis, outcome.Value)
		return s, nil
	})
}
