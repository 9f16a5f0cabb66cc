package pipeline_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
	"github.com/JaimeStill/wraith/internal/pipeline"
)

func passingMetadata() collaborators.RenderMetadata {
	return collaborators.RenderMetadata{
		Background:     "#FFFFFF",
		GhostMannequin: true,
		Labels: []collaborators.LabelLegibility{
			{Text: "EAT", Legibility: 0.92},
		},
	}
}

func keepListControl() *facts.ControlBlock {
	return facts.DeriveControl(&facts.FactsRecord{
		SchemaVersion: facts.FactsSchemaVersion,
		SessionID:     "55555555-5555-5555-5555-555555555555",
		LabelsFound: []facts.Label{
			{Text: "EAT", Preserve: true, Priority: facts.PriorityCritical, OCRConfidence: 0.95},
		},
	})
}

func TestEvaluatePasses(t *testing.T) {
	eval := pipeline.Evaluate(passingMetadata(), keepListControl())
	if !eval.Passed {
		t.Fatalf("evaluation failed: %v", eval.Reasons)
	}
	if len(eval.Reasons) != 0 {
		t.Errorf("reasons = %v, want none", eval.Reasons)
	}
}

func TestEvaluateWhiteBackgroundForms(t *testing.T) {
	for _, background := range []string{"#FFFFFF", "#ffffff", "white", "WHITE", " White "} {
		meta := passingMetadata()
		meta.Background = background

		eval := pipeline.Evaluate(meta, keepListControl())
		if !eval.Passed {
			t.Errorf("background %q rejected: %v", background, eval.Reasons)
		}
	}
}

func TestEvaluateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*collaborators.RenderMetadata)
		want   string
	}{
		{
			name:   "non-white background",
			mutate: func(m *collaborators.RenderMetadata) { m.Background = "#F5F5F5" },
			want:   "not pure white",
		},
		{
			name:   "ghost mannequin missing",
			mutate: func(m *collaborators.RenderMetadata) { m.GhostMannequin = false },
			want:   "ghost mannequin",
		},
		{
			name: "label legibility below threshold",
			mutate: func(m *collaborators.RenderMetadata) {
				m.Labels = []collaborators.LabelLegibility{{Text: "EAT", Legibility: 0.4}}
			},
			want: `label "EAT" legibility`,
		},
		{
			name:   "label legibility not reported",
			mutate: func(m *collaborators.RenderMetadata) { m.Labels = nil },
			want:   "not reported",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := passingMetadata()
			tc.mutate(&meta)

			eval := pipeline.Evaluate(meta, keepListControl())
			if eval.Passed {
				t.Fatal("expected evaluation failure")
			}
			if len(eval.Reasons) != 1 || !strings.Contains(eval.Reasons[0], tc.want) {
				t.Errorf("reasons = %v, want one containing %q", eval.Reasons, tc.want)
			}
		})
	}
}

func TestEvaluateAccumulatesReasons(t *testing.T) {
	meta := collaborators.RenderMetadata{
		Background:     "#CCCCCC",
		GhostMannequin: false,
	}

	eval := pipeline.Evaluate(meta, keepListControl())
	if eval.Passed {
		t.Fatal("expected evaluation failure")
	}
	if len(eval.Reasons) != 3 {
		t.Errorf("reasons = %v, want 3 entries", eval.Reasons)
	}
}
