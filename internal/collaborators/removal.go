package collaborators

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
)

type removalRequest struct {
	Image string `json:"image"`
}

type removalResponse struct {
	Image       string `json:"image"`
	ContentType string `json:"content_type"`
}

type httpRemover struct {
	client *endpointClient
	logger *slog.Logger
}

// NewRemover creates the background-removal collaborator, a direct client
// for the removal service endpoint.
func NewRemover(endpoint, token string, logger *slog.Logger) Remover {
	return &httpRemover{
		client: newEndpointClient(endpoint, token),
		logger: logger.With("collaborator", "removal"),
	}
}

func (r *httpRemover) Remove(ctx context.Context, img ImagePayload) (ImagePayload, error) {
	dataURI, err := img.DataURI()
	if err != nil {
		return ImagePayload{}, err
	}

	var resp removalResponse
	if err := r.client.post(ctx, removalRequest{Image: dataURI}, &resp); err != nil {
		return ImagePayload{}, fmt.Errorf("removal call: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		return ImagePayload{}, fmt.Errorf("decode removal response image: %w", err)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	r.logger.InfoContext(ctx, "background removed", "bytes", len(data))

	return ImagePayload{Data: data, ContentType: contentType}, nil
}
