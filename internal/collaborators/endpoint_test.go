package collaborators_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/facts"
)

// 1x1 transparent PNG
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func pngPayload(t *testing.T) collaborators.ImagePayload {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pngBase64)
	if err != nil {
		t.Fatalf("decode test png: %v", err)
	}
	return collaborators.ImagePayload{Data: data, ContentType: "image/png"}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRemoverRoundTrip(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.HasPrefix(req.Image, "data:image/png") {
			t.Errorf("image = %.40s, want png data uri", req.Image)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"image":        base64.StdEncoding.EncodeToString([]byte("cleaned")),
			"content_type": "image/png",
		})
	}))
	defer server.Close()

	remover := collaborators.NewRemover(server.URL, "secret", discardLogger())

	cleaned, err := remover.Remove(context.Background(), pngPayload(t))
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if string(cleaned.Data) != "cleaned" {
		t.Errorf("data = %q, want cleaned", cleaned.Data)
	}
	if cleaned.ContentType != "image/png" {
		t.Errorf("content type = %s", cleaned.ContentType)
	}
}

func TestRemoverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	remover := collaborators.NewRemover(server.URL, "", discardLogger())

	_, err := remover.Remove(context.Background(), pngPayload(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v, want status mention", err)
	}
}

func TestRemoverMissingEndpoint(t *testing.T) {
	remover := collaborators.NewRemover("", "", discardLogger())

	_, err := remover.Remove(context.Background(), pngPayload(t))
	if !errors.Is(err, collaborators.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestRendererRoundTrip(t *testing.T) {
	var gotInstruction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Image       string              `json:"image"`
			Facts       *facts.FactsRecord  `json:"facts"`
			Control     *facts.ControlBlock `json:"control"`
			Instruction string              `json:"instruction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotInstruction = req.Instruction
		if req.Facts == nil || req.Facts.Palette.DominantHex != "#2E5BBA" {
			t.Errorf("facts not carried: %+v", req.Facts)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"image":        base64.StdEncoding.EncodeToString([]byte("rendered")),
			"content_type": "image/png",
			"metadata": map[string]any{
				"background":      "#FFFFFF",
				"ghost_mannequin": true,
				"labels": []map[string]any{
					{"text": "EAT", "legibility": 0.92},
				},
			},
		})
	}))
	defer server.Close()

	renderer := collaborators.NewRenderer(server.URL, "", discardLogger())

	record := &facts.FactsRecord{
		SchemaVersion: facts.FactsSchemaVersion,
		SessionID:     "66666666-6666-6666-6666-666666666666",
		Palette:       facts.Palette{DominantHex: "#2E5BBA"},
		Transparency:  "opaque",
	}
	control := facts.DeriveControl(record)

	result, err := renderer.Render(context.Background(), pngPayload(t), record, control, "render it")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if gotInstruction != "render it" {
		t.Errorf("instruction = %q", gotInstruction)
	}
	if string(result.Image.Data) != "rendered" {
		t.Errorf("data = %q", result.Image.Data)
	}
	if !result.Metadata.GhostMannequin || result.Metadata.Background != "#FFFFFF" {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	if len(result.Metadata.Labels) != 1 || result.Metadata.Labels[0].Text != "EAT" {
		t.Errorf("labels = %+v", result.Metadata.Labels)
	}
}
