package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/internal/prompts"
	"github.com/JaimeStill/wraith/pkg/stage"
	"github.com/JaimeStill/wraith/pkg/storage"
)

type renderContext struct {
	Facts   *facts.FactsRecord  `json:"facts"`
	Control *facts.ControlBlock `json:"control"`
}

// RenderNode returns the rendering stage node with its quality gate. The
// render/QA loop is an explicit bounded loop with an attempt counter and
// accumulated reasons: after a failed evaluation the instruction is
// re-issued with the gate's feedback, up to QAMaxRetries extra attempts.
// Each attempt's image is stored under a new session key; artifacts are
// immutable once written.
func RenderNode(rt *Runtime) state.StateNode {
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

		record, err := fromState[*facts.FactsRecord](s, KeyFacts)
		if err != nil {
			return s, err
		}

		control, err := fromState[*facts.ControlBlock](s, KeyControl)
		if err != nil {
			return s, err
		}

		instruction, err := prompts.Compose(prompts.StageRender, renderContext{
			Facts:   record,
			Control: control,
		})
		if err != nil {
			return s, err
		}

		var rs renderState
		maxAttempts := 1 + rt.Options.QAMaxRetries

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return s, err
			}

			rs.Attempts = attempt

			outcome := stage.Run(
				ctx, StageRendering,
				rt.Options.Budgets.Render, rt.Options.Policy,
				func(c context.Context) (*collaborators.RenderResult, error) {
					return rt.Renderer.Render(c, working, record, control, instruction)
				},
			)
			sess.Record(outcome.Name, outcome.Status, outcome.Duration, outcome.Err)

			if outcome.Failed() {
				return s, stageError(StageRendering, codeForOutcome(outcome.Status, outcome.Err), outcome.Err)
			}

			rendered := outcome.Value
			rs.Metadata = rendered.Metadata

			key := storage.SessionKey(
				sess.ID.String(),
				fmt.Sprintf("render-%d.%s", attempt, imageExt(rendered.Image.ContentType)),
			)
			ref, err := rt.Storage.Put(ctx, key, bytes.NewReader(rendered.Image.Data), rendered.Image.ContentType)
			if err != nil {
				return s, stageError(StageRendering, CodeStageFailed, fmt.Errorf("store rendered image: %w", err))
			}
			rs.Ref = ref

			eval := Evaluate(rendered.Metadata, control)
			sess.Record(StageQAGate, qaStatus(eval.Passed), 0, nil)

			if eval.Passed {
				rs.Passed = true
				rs.Reasons = nil
				break
			}

			rs.Reasons = append(rs.Reasons, eval.Reasons...)

			rt.Logger.WarnContext(
				ctx, "render failed quality gate",
				"session_id", sess.ID,
				"attempt", attempt,
				"reasons", eval.Reasons,
			)

			instruction = retryInstruction(instruction, eval.Reasons)
		}

		if !rs.Passed && rt.Options.QAMandatory {
			return s, &Error{
				Stage:   StageQAGate,
				Code:    CodeRenderQAExhausted,
				Message: fmt.Sprintf("quality gate not passed after %d attempts: %s", rs.Attempts, strings.Join(rs.Reasons, "; ")),
			}
		}

		rt.Logger.InfoContext(
			ctx, "rendering complete",
			"session_id", sess.ID,
			"attempts", rs.Attempts,
			"qa_passed", rs.Passed,
			"ref", rs.Ref,
		)

		s = s.Set(KeyRender, rs)
		return s, nil
	})
}

func qaStatus(passed bool) stage.Status {
	if passed {
		return stage.StatusSuccess
	}
	return stage.StatusFailed
}

// retryInstruction appends the quality gate's findings from the latest
// attempt so the render service can correct them.
func retryInstruction(instruction string, reasons []string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nThe previous render failed these quality checks; correct them:\n")
	for _, reason := range reasons {
		b.WriteString("- ")
		b.WriteString(reason)
		b.WriteString("\n")
	}
	return b.String()
}
