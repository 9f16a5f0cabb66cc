package prompts_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/wraith/internal/prompts"
)

func TestComposeWithoutContext(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Compose(stage, nil)
		if err != nil {
			t.Errorf("Compose(%s) error = %v", stage, err)
			continue
		}
		if text == "" {
			t.Errorf("Compose(%s) returned empty instructions", stage)
		}
		if strings.Contains(text, "Context:") {
			t.Errorf("Compose(%s) appended context without one", stage)
		}
	}
}

func TestComposeWithContext(t *testing.T) {
	context := map[string]string{"dominant_hex": "#2E5BBA"}

	text, err := prompts.Compose(prompts.StageRender, context)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	if !strings.Contains(text, "Context:") {
		t.Error("context section missing")
	}
	if !strings.Contains(text, "#2E5BBA") {
		t.Error("context payload missing")
	}
}

func TestComposeInvalidStage(t *testing.T) {
	_, err := prompts.Compose(prompts.Stage("unknown"), nil)
	if !errors.Is(err, prompts.ErrInvalidStage) {
		t.Fatalf("err = %v, want ErrInvalidStage", err)
	}
}

func TestParseStage(t *testing.T) {
	stage, err := prompts.ParseStage("analysis")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if stage != prompts.StageAnalysis {
		t.Errorf("stage = %s, want analysis", stage)
	}

	if _, err := prompts.ParseStage("cleanup"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("err = %v, want ErrInvalidStage", err)
	}
}
