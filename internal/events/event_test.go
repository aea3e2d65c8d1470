package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestEmbeddingTextKeepsFieldOrderAndAccents(t *testing.T) {
	payload := struct {
		Nombre  string `json:"nombre"`
		Familia string `json:"familia"`
	}{Nombre: "Taladro <12V> & batería", Familia: "12V"}

	got := EmbeddingText(payload)
	want := `{"nombre":"Taladro <12V> & batería","familia":"12V"}`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEmbeddingTextPassesStringsThrough(t *testing.T) {
	if got := EmbeddingText("Juan Pérez"); got != "Juan Pérez" {
		t.Fatalf("expected bare name, got %q", got)
	}
}

func TestNewEmbeddingRequested(t *testing.T) {
	tenant, id := uuid.New(), uuid.New()
	e := NewEmbeddingRequested(tenant, EntityVendor, id, "Ana")
	if e.TenantID != tenant || e.EntityID != id || e.Kind != EntityVendor || e.Text != "Ana" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.OccurredAt().IsZero() {
		t.Fatalf("expected timestamp")
	}
}
