package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/pkg/storage"
)

// Execute runs the ghost-mannequin pipeline for a single request. It
// creates a fresh Session, uploads the source images, drives the stage
// graph, and returns the terminal PipelineResult. Failures in mandatory
// stages surface as a failed result naming the stage and a stable error
// code; an error return indicates an infrastructure problem (storage,
// graph wiring) or cancellation, not a stage failure.
func Execute(ctx context.Context, rt *Runtime, input Input) (*Result, error) {
	if len(input.Garment.Data) == 0 {
		return nil, ErrEmptyGarment
	}

	sess := NewSession()

	rt.Logger.InfoContext(
		ctx, "pipeline starting",
		"session_id", sess.ID,
		"clean", input.Clean,
		"has_on_model", input.OnModel != nil,
	)

	if err := uploadSources(ctx, rt, sess, input); err != nil {
		return nil, fmt.Errorf("upload source images: %w", err)
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeySession, sess)
	initial = initial.Set(KeyInput, input)
	initial = initial.Set(KeyWorking, input.Garment)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			rt.Logger.WarnContext(
				ctx, "pipeline failed",
				"session_id", sess.ID,
				"stage", perr.Stage,
				"code", perr.Code,
			)
			return failedResult(sess, perr), nil
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := completedResult(sess, final)
	if err != nil {
		return nil, err
	}

	rt.Logger.InfoContext(
		ctx, "pipeline complete",
		"session_id", sess.ID,
		"duration", sess.TotalDuration(),
		"qa_flagged", result.QAFlagged,
	)

	return result, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("wraith-render")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("remove", RemoveNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("enrich", EnrichNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("consolidate", ConsolidateNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("render", RenderNode(rt)); err != nil {
		return nil, err
	}

	// init → remove (when the garment image still carries a background)
	if err := graph.AddEdge("init", "remove", needsRemoval); err != nil {
		return nil, err
	}

	// init → analyze (when the caller supplied an already-clean image)
	if err := graph.AddEdge("init", "analyze", state.Not(needsRemoval)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("remove", "analyze", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("analyze", "enrich", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("enrich", "consolidate", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("consolidate", "render", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("render"); err != nil {
		return nil, err
	}

	return graph, nil
}

// InitNode returns the entry node. It only verifies the run has not been
// cancelled before any remote spend begins; source uploads happen before
// the graph starts.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		return s, nil
	})
}

func needsRemoval(s state.State) bool {
	input, err := fromState[Input](s, KeyInput)
	if err != nil {
		return false
	}
	return !input.Clean
}

func uploadSources(ctx context.Context, rt *Runtime, sess *Session, input Input) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		key := storage.SessionKey(sess.ID.String(), "source."+imageExt(input.Garment.ContentType))
		_, err := rt.Storage.Put(gctx, key, bytes.NewReader(input.Garment.Data), input.Garment.ContentType)
		return err
	})

	if input.OnModel != nil {
		onModel := *input.OnModel
		g.Go(func() error {
			key := storage.SessionKey(sess.ID.String(), "on-model."+imageExt(onModel.ContentType))
			_, err := rt.Storage.Put(gctx, key, bytes.NewReader(onModel.Data), onModel.ContentType)
			return err
		})
	}

	return g.Wait()
}

func failedResult(sess *Session, perr *Error) *Result {
	return &Result{
		SessionID:    sess.ID.String(),
		Status:       StatusFailed,
		StageTimings: sess.StageResults(),
		Error:        perr,
	}
}

func completedResult(sess *Session, s state.State) (*Result, error) {
	record, err := fromState[*facts.FactsRecord](s, KeyFacts)
	if err != nil {
		return nil, err
	}

	control, err := fromState[*facts.ControlBlock](s, KeyControl)
	if err != nil {
		return nil, err
	}

	rs, err := fromState[renderState](s, KeyRender)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SessionID:        sess.ID.String(),
		Status:           StatusCompleted,
		RenderedImageRef: rs.Ref,
		Facts:            record,
		Control:          control,
		StageTimings:     sess.StageResults(),
		QAFlagged:        !rs.Passed,
		QAReasons:        rs.Reasons,
	}

	if ref, err := fromState[string](s, KeyCleanedRef); err == nil {
		result.CleanedImageRef = ref
	}

	return result, nil
}
