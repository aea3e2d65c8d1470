package embedding

import (
	"context"
	"fmt"

	"comercial_backend/internal/events"
	"comercial_backend/internal/scheduler"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// Embedder computes the vector of a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Refresher reacts to EmbeddingRequested events. With a queue it defers the
// work to the scheduler worker; without one it embeds in the event handler.
type Refresher struct {
	embedder Embedder
	store    Store
	queue    scheduler.EmbeddingScheduler
	log      *logger.Logger
}

var _ scheduler.EmbeddingApplier = (*Refresher)(nil)

// NewRefresher creates a refresher. queue may be nil.
func NewRefresher(embedder Embedder, store Store, queue scheduler.EmbeddingScheduler, log *logger.Logger) *Refresher {
	return &Refresher{embedder: embedder, store: store, queue: queue, log: log}
}

// RegisterHandlers subscribes the refresher to the bus.
func (r *Refresher) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EmbeddingRequested{}.EventName(), r)
}

// Handle implements events.Handler.
func (r *Refresher) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EmbeddingRequested)
	if !ok {
		return nil
	}

	if r.queue != nil {
		err := r.queue.EnqueueEmbeddingRefresh(ctx, scheduler.EmbeddingRefreshPayload{
			TenantID: e.TenantID.String(),
			Kind:     string(e.Kind),
			EntityID: e.EntityID.String(),
			Text:     e.Text,
		})
		if err == nil {
			return nil
		}
		r.log.WithContext(ctx).Warn("embedding enqueue failed, refreshing inline", "kind", e.Kind, "entityId", e.EntityID, "error", err)
	}

	return r.Apply(ctx, e.TenantID, e.Kind, e.EntityID, e.Text)
}

// Apply embeds text and stores the vector on the entity row.
func (r *Refresher) Apply(ctx context.Context, tenantID uuid.UUID, kind events.EntityKind, entityID uuid.UUID, text string) error {
	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s %s: %w", kind, entityID, err)
	}
	if err := r.store.UpdateEmbedding(ctx, kind, tenantID, entityID, vector); err != nil {
		return err
	}
	r.log.WithContext(ctx).Debug("embedding refreshed", "kind", kind, "entityId", entityID, "dimensions", len(vector))
	return nil
}
