// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"comercial_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// EntityKind names a table that carries an embedding column.
type EntityKind string

const (
	EntityProduct   EntityKind = "product"
	EntityComClient EntityKind = "comclient"
	EntityVendor    EntityKind = "vendor"
)

// ProductEmbedding is the document a product vector is computed from.
type ProductEmbedding struct {
	Nombre  string `json:"nombre"`
	Familia string `json:"familia"`
}

// ComClientEmbedding is the document a client vector is computed from.
// Vendors embed their bare name.
type ComClientEmbedding struct {
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
}

// =============================================================================
// Embedding Events
// =============================================================================

// EmbeddingRequested is published after a create or rename so the entity's
// vector can be (re)computed outside the mutation path.
type EmbeddingRequested struct {
	BaseEvent
	TenantID uuid.UUID  `json:"tenantId"`
	Kind     EntityKind `json:"kind"`
	EntityID uuid.UUID  `json:"entityId"`
	Text     string     `json:"text"`
}

func (e EmbeddingRequested) EventName() string { return "embedding.requested" }

// NewEmbeddingRequested builds the event with payload serialized as compact
// JSON in field order, which is the text the vector is computed from.
func NewEmbeddingRequested(tenantID uuid.UUID, kind EntityKind, entityID uuid.UUID, payload any) EmbeddingRequested {
	return EmbeddingRequested{
		BaseEvent: NewBaseEvent(),
		TenantID:  tenantID,
		Kind:      kind,
		EntityID:  entityID,
		Text:      EmbeddingText(payload),
	}
}

// EmbeddingText renders payload for embedding. Strings pass through unchanged.
func EmbeddingText(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return fmt.Sprint(payload)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
