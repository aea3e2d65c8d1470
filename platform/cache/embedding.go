package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"comercial_backend/platform/ai/embeddings"
	"comercial_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const embeddingKeyPrefix = "emb:"

// EmbeddingCache memoizes query embeddings. Redis failures degrade to a direct call.
type EmbeddingCache struct {
	next  embeddings.Embedder
	redis redis.UniversalClient
	ttl   time.Duration
	log   *logger.Logger
}

var _ embeddings.Embedder = (*EmbeddingCache)(nil)

// NewEmbeddingCache wraps next. A zero ttl keeps entries without expiry.
func NewEmbeddingCache(next embeddings.Embedder, client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *EmbeddingCache {
	return &EmbeddingCache{next: next, redis: client, ttl: ttl, log: log}
}

// Model delegates to the wrapped embedder.
func (c *EmbeddingCache) Model() string { return c.next.Model() }

// Embed returns the cached vector for text or computes and stores it.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil && len(vec) > 0 {
			return vec, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn("embedding cache read failed", "error", err)
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(vec); jsonErr == nil {
		if setErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("embedding cache write failed", "error", setErr)
		}
	}
	return vec, nil
}

func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.next.Model() + "\x00" + text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}
