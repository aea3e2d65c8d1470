package cache

import (
	"context"
	"testing"
	"time"

	"comercial_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingEmbedder struct {
	calls int
}

func (e *countingEmbedder) Model() string { return "test-model" }

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	return []float32{float32(len(text)), 1}, nil
}

func newTestCache(t *testing.T) (*EmbeddingCache, *countingEmbedder, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	next := &countingEmbedder{}
	return NewEmbeddingCache(next, client, time.Hour, logger.New("test")), next, mr
}

func TestEmbeddingCacheHitsRedisOnSecondCall(t *testing.T) {
	c, next, _ := newTestCache(t)
	ctx := context.Background()

	first, err := c.Embed(ctx, "Ferretería Central")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Embed(ctx, "Ferretería Central")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", next.calls)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatalf("expected identical vectors, got %v and %v", first, second)
	}
}

func TestEmbeddingCacheAppliesTTL(t *testing.T) {
	c, next, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := c.Embed(ctx, "taladro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := c.Embed(ctx, "taladro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.calls != 2 {
		t.Fatalf("expected expiry to force a second provider call, got %d", next.calls)
	}
}

func TestEmbeddingCacheFallsBackWhenRedisDown(t *testing.T) {
	c, next, mr := newTestCache(t)
	mr.Close()

	if _, err := c.Embed(context.Background(), "amoladora"); err != nil {
		t.Fatalf("expected fallback to provider, got %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", next.calls)
	}
}
