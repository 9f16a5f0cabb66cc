package collaborators

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/wraith/internal/facts"
)

type renderRequest struct {
	Image       string              `json:"image"`
	Facts       *facts.FactsRecord  `json:"facts"`
	Control     *facts.ControlBlock `json:"control"`
	Instruction string              `json:"instruction"`
}

type renderResponse struct {
	Image       string         `json:"image"`
	ContentType string         `json:"content_type"`
	Metadata    RenderMetadata `json:"metadata"`
}

type httpRenderer struct {
	client *endpointClient
	logger *slog.Logger
}

// NewRenderer creates the image-generation collaborator, a direct client
// for the render service endpoint.
func NewRenderer(endpoint, token string, logger *slog.Logger) Renderer {
	return &httpRenderer{
		client: newEndpointClient(endpoint, token),
		logger: logger.With("collaborator", "render"),
	}
}

func (r *httpRenderer) Render(
	ctx context.Context,
	img ImagePayload,
	record *facts.FactsRecord,
	control *facts.ControlBlock,
	instruction string,
) (*RenderResult, error) {
	dataURI, err := img.DataURI()
	if err != nil {
		return nil, err
	}

	req := renderRequest{
		Image:       dataURI,
		Facts:       record,
		Control:     control,
		Instruction: instruction,
	}

	var resp renderResponse
	if err := r.client.post(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("render call: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("decode rendered image: %w", err)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	r.logger.InfoContext(
		ctx, "render complete",
		"bytes", len(data),
		"background", resp.Metadata.Background,
		"labels_reported", len(resp.Metadata.Labels),
	)

	return &RenderResult{
		Image:    ImagePayload{Data: data, ContentType: contentType},
		Metadata: resp.Metadata,
	}, nil
}
