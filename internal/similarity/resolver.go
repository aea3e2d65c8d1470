// Package similarity resolves free-text names to stored entities by vector
// distance within a single tenant.
package similarity

import (
	"context"
	"fmt"

	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	// DefaultLimit caps the candidates returned by Resolve.
	DefaultLimit = 5
	// DefaultMaxDistance is the exclusive upper bound on accepted distances.
	DefaultMaxDistance = 1.3
)

// Kind names the entity table a resolver searches.
type Kind string

const (
	KindProduct   Kind = "product"
	KindComClient Kind = "comclient"
	KindVendor    Kind = "vendor"
)

// Embedder converts query text into the vector space of the stored embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Neighbor is one row returned by a nearest-neighbour query.
type Neighbor struct {
	ID       uuid.UUID
	Distance float64
}

// Source is the store side of one entity kind. Nearest must only return rows
// of tenantID with distance strictly below maxDistance, ordered ascending.
// GetByID returns an apperr NotFound error once the row is gone.
type Source[T any] interface {
	Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]Neighbor, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (T, error)
}

// Candidate is a fully-hydrated entity and its distance to the query.
type Candidate[T any] struct {
	Entity   T
	Distance float64
}

// Options overrides the default limit and threshold. Zero values mean default.
type Options struct {
	Limit       int
	MaxDistance float64
}

func (o Options) withDefaults(base Options) Options {
	if o.Limit <= 0 {
		o.Limit = base.Limit
	}
	if o.MaxDistance <= 0 {
		o.MaxDistance = base.MaxDistance
	}
	return o
}

// Resolver searches one entity kind.
type Resolver[T any] struct {
	kind     Kind
	embedder Embedder
	source   Source[T]
	defaults Options
	label    func(T) string
	log      *logger.Logger
}

// New creates a resolver for kind. label renders an entity for debug logs
// and may be nil.
func New[T any](kind Kind, embedder Embedder, source Source[T], defaults Options, label func(T) string, log *logger.Logger) *Resolver[T] {
	return &Resolver[T]{
		kind:     kind,
		embedder: embedder,
		source:   source,
		defaults: defaults.withDefaults(Options{Limit: DefaultLimit, MaxDistance: DefaultMaxDistance}),
		label:    label,
		log:      log,
	}
}

// Resolve returns up to opts.Limit candidates closest to query. Nothing under
// the threshold yields an empty slice and a nil error.
func (r *Resolver[T]) Resolve(ctx context.Context, tenantID uuid.UUID, query string, opts Options) ([]Candidate[T], error) {
	opts = opts.withDefaults(r.defaults)

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperr.Unavailable("embedding failed", err).WithOp(fmt.Sprintf("resolve %s", r.kind))
	}

	neighbors, err := r.source.Nearest(ctx, tenantID, vector, opts.MaxDistance, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: nearest: %w", r.kind, err)
	}

	out := make([]Candidate[T], 0, len(neighbors))
	for _, n := range neighbors {
		if n.Distance >= opts.MaxDistance || len(out) == opts.Limit {
			continue
		}
		entity, err := r.source.GetByID(ctx, tenantID, n.ID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve %s: hydrate: %w", r.kind, err)
		}
		out = append(out, Candidate[T]{Entity: entity, Distance: n.Distance})
	}

	r.logCandidates(ctx, query, out)
	return out, nil
}

// ResolveBest returns the closest candidate, if any.
func (r *Resolver[T]) ResolveBest(ctx context.Context, tenantID uuid.UUID, query string) (Candidate[T], bool, error) {
	candidates, err := r.Resolve(ctx, tenantID, query, Options{Limit: 1})
	if err != nil || len(candidates) == 0 {
		return Candidate[T]{}, false, err
	}
	return candidates[0], true, nil
}

func (r *Resolver[T]) logCandidates(ctx context.Context, query string, candidates []Candidate[T]) {
	if r.log == nil {
		return
	}
	log := r.log.WithContext(ctx)
	log.Debug("similarity search", "kind", r.kind, "query", query, "candidates", len(candidates))
	if r.label == nil {
		return
	}
	for _, c := range candidates {
		log.Debug("similarity candidate", "kind", r.kind, "name", r.label(c.Entity), "distance", c.Distance)
	}
}
