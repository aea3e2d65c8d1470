package embeddings

import (
	"fmt"

	"comercial_backend/platform/config"
)

// New picks the configured provider. OpenAI wins when both are set.
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	switch {
	case cfg.IsOpenAIEmbeddingEnabled():
		return NewOpenAIEmbedder(cfg.GetOpenAIEmbeddingAPIKey(), cfg.GetOpenAIEmbeddingModel(), cfg.GetEmbeddingTimeout()), nil
	case cfg.IsEmbeddingAPIEnabled():
		return NewClient(Config{
			BaseURL: cfg.GetEmbeddingAPIURL(),
			APIKey:  cfg.GetEmbeddingAPIKey(),
			Timeout: cfg.GetEmbeddingTimeout(),
		}), nil
	default:
		return nil, fmt.Errorf("no embedding provider configured")
	}
}
