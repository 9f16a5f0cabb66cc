package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
)

// Evaluation is the render gate's verdict for one rendered image.
type Evaluation struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// Evaluate checks the render service's reported metadata against the
// control block. Checks are structural (reported flags and scores, not
// pixel-level judgments): background color when a white background is
// mandated, the ghost-mannequin flag, and a legibility score at or above
// the threshold for every keep-list label.
func Evaluate(meta collaborators.RenderMetadata, control *facts.ControlBlock) Evaluation {
	var reasons []string

	if slices.Contains(control.Must, facts.MustWhiteBackground) && !whiteBackground(meta.Background) {
		reasons = append(reasons, fmt.Sprintf("background %q is not pure white", meta.Background))
	}

	if slices.Contains(control.Must, facts.MustGhostMannequin) && !meta.GhostMannequin {
		reasons = append(reasons, "ghost mannequin effect not reported")
	}

	for _, text := range control.LabelKeepList {
		score, ok := labelScore(meta.Labels, text)
		if !ok {
			reasons = append(reasons, fmt.Sprintf("label %q legibility not reported", text))
			continue
		}
		if score < control.LabelLegibilityMin {
			reasons = append(reasons, fmt.Sprintf(
				"label %q legibility %.2f < %.2f",
				text, score, control.LabelLegibilityMin,
			))
		}
	}

	return Evaluation{
		Passed:  len(reasons) == 0,
		Reasons: reasons,
	}
}

func whiteBackground(background string) bool {
	switch strings.ToUpper(strings.TrimSpace(background)) {
	case "#FFFFFF", "WHITE":
		return true
	}
	return false
}

func labelScore(labels []collaborators.LabelLegibility, text string) (float64, bool) {
	for _, label := range labels {
		if label.Text == text {
			return label.Legibility, true
		}
	}
	return 0, false
}
