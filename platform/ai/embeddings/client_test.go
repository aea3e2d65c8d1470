package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientEmbedAcceptsWrappedVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer header, got %q", got)
		}
		var body embeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Text != "taladro" {
			t.Errorf("expected text taladro, got %q", body.Text)
		}
		_, _ = w.Write([]byte(`{"vector":[0.1,0.2,0.3]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	vec, err := c.Embed(context.Background(), "taladro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
}

func TestDecodeVectorShapes(t *testing.T) {
	cases := map[string]int{
		`[1,2]`:                          2,
		`{"data":[{"embedding":[1,2,3,4]}]}`: 4,
	}
	for body, want := range cases {
		vec, err := decodeVector([]byte(body))
		if err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if len(vec) != want {
			t.Fatalf("decode %s: expected %d dims, got %d", body, want, len(vec))
		}
	}

	if _, err := decodeVector([]byte(`{"vector":[]}`)); err == nil {
		t.Fatalf("expected error for empty vector")
	}
}

func TestClientEmbedNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(Config{BaseURL: srv.URL}).Embed(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 502")
	}
}
