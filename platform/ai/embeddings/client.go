// Package embeddings turns text into fixed-length vectors.
// Writes and queries must go through the same provider so their vectors are comparable.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Embedder is the port every provider implements.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Model identifies the vector space. Cache keys include it.
	Model() string
}

// Client is an HTTP client for a self-hosted embedding API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Config configures the embedding client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

var _ Embedder = (*Client)(nil)

// NewClient creates a new embedding API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the endpoint URL, which identifies the served model.
func (c *Client) Model() string { return c.baseURL }

type embeddingRequest struct {
	Text string `json:"text"`
}

// Embed posts text to the API and decodes the returned vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bodyBytes, err := json.Marshal(embeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned %d: %s", resp.StatusCode, string(body))
	}

	return decodeVector(body)
}

// decodeVector accepts {"vector": [...]}, {"data":[{"embedding": [...]}]} and a raw array.
func decodeVector(body []byte) ([]float32, error) {
	var wrapped struct {
		Vector []float32 `json:"vector"`
		Data   []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if len(wrapped.Vector) > 0 {
			return wrapped.Vector, nil
		}
		if len(wrapped.Data) > 0 && len(wrapped.Data[0].Embedding) > 0 {
			return wrapped.Data[0].Embedding, nil
		}
	}

	var vector []float32
	if err := json.Unmarshal(body, &vector); err == nil && len(vector) > 0 {
		return vector, nil
	}

	return nil, fmt.Errorf("failed to decode embedding response")
}
