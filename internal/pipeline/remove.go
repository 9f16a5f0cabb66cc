package pipeline

import (
	"bytes"
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/pkg/stage"
	"github.com/JaimeStill/wraith/pkg/storage"
)

// RemoveNode returns the background-removal stage node. Removal failure is
// never fatal: the pipeline continues with the source garment image, since
// the caller may retry with an already-clean image and every later stage
// tolerates an uncleaned background.
func RemoveNode(rt *Runtime) state.StateNode {
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

		outcome := stage.Run(
			ctx, StageBackgroundRemoval,
			rt.Options.Budgets.Removal, rt.Options.Policy,
			func(c context.Context) (collaborators.ImagePayload, error) {
				return rt.Remover.Remove(c, input.Garment)
			},
		)
		sess.Record(outcome.Name, outcome.Status, outcome.Duration, outcome.Err)

		if outcome.Failed() {
			rt.Logger.WarnContext(
				ctx, "background removal failed, continuing with source image",
				"session_id", sess.ID,
				"status", outcome.Status,
				"error", outcome.Err,
			)
			return s, nil
		}

		cleaned := outcome.Value
		key := storage.SessionKey(sess.ID.String(), "cleaned."+imageExt(cleaned.ContentType))

		ref, err := rt.Storage.Put(ctx, key, bytes.NewReader(cleaned.Data), cleaned.ContentType)
		if err != nil {
			rt.Logger.WarnContext(
				ctx, "cleaned image upload failed",
				"session_id", sess.ID,
				"error", err,
			)
		} else {
			s = s.Set(KeyCleanedRef, ref)
		}

		rt.Logger.InfoContext(
			ctx, "background removal complete",
			"session_id", sess.ID,
			"ref", ref,
		)

		s = s.Set(KeyWorking, cleaned)
		return s, nil
	})
}

func imageExt(contentType string) string {
	if contentType == "image/jpeg" {
		return "jpg"
	}
	return "png"
}
