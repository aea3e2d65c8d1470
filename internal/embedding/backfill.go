package embedding

import (
	"context"
	"sync/atomic"

	"comercial_backend/internal/events"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBackfillBatch = 100

// Backfill embeds every row that has no embedding yet.
type Backfill struct {
	store       Store
	applier     *Refresher
	batch       int
	concurrency int
	log         *logger.Logger
}

// NewBackfill creates a backfill that embeds up to concurrency rows at once.
func NewBackfill(store Store, applier *Refresher, concurrency int, log *logger.Logger) *Backfill {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Backfill{store: store, applier: applier, batch: defaultBackfillBatch, concurrency: concurrency, log: log}
}

// Run processes the given kinds in order and reports how many rows were
// embedded. A failing row is logged and skipped.
func (b *Backfill) Run(ctx context.Context, kinds []events.EntityKind) (int64, error) {
	var done int64
	for _, kind := range kinds {
		n, err := b.runKind(ctx, kind)
		done += n
		if err != nil {
			return done, err
		}
		b.log.Info("embedding backfill finished", "kind", kind, "embedded", n)
	}
	return done, nil
}

func (b *Backfill) runKind(ctx context.Context, kind events.EntityKind) (int64, error) {
	var (
		done  atomic.Int64
		after = uuid.Nil
	)
	for {
		pending, err := b.store.ListMissing(ctx, kind, after, b.batch)
		if err != nil {
			return done.Load(), err
		}
		if len(pending) == 0 {
			return done.Load(), nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.concurrency)
		for _, p := range pending {
			g.Go(func() error {
				if err := b.applier.Apply(gctx, p.TenantID, p.Kind, p.ID, p.Text); err != nil {
					b.log.Warn("embedding backfill row failed", "kind", p.Kind, "id", p.ID, "error", err)
					return nil
				}
				done.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return done.Load(), err
		}
		if err := ctx.Err(); err != nil {
			return done.Load(), err
		}

		after = pending[len(pending)-1].ID
	}
}
