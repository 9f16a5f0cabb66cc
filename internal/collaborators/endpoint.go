package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured indicates a collaborator was constructed without its
// required endpoint configuration.
var ErrNotConfigured = errors.New("collaborator not configured")

// endpointClient posts JSON payloads to a collaborator service endpoint.
// Deadlines come from the caller's context; the stage executor owns the
// per-stage time budget, so the underlying client carries no timeout of
// its own.
type endpointClient struct {
	endpoint string
	token    string
	http     *http.Client
}

func newEndpointClient(endpoint, token string) *endpointClient {
	return &endpointClient{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{},
	}
}

func (c *endpointClient) post(ctx context.Context, payload, result any) error {
	if c.endpoint == "" {
		return fmt.Errorf("%w: endpoint not set", ErrNotConfigured)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, data)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
