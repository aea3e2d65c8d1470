// Package recommendation suggests catalog products a client has not bought
// yet, taken from the categories the client already buys from.
package recommendation

import (
	"context"
	"fmt"

	catrepo "comercial_backend/internal/catalog/repository"
	custrepo "comercial_backend/internal/customers/repository"
	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// DefaultLimit caps the number of recommended products.
const DefaultLimit = 10

// ClientResolver finds the client closest to a free-text name.
type ClientResolver interface {
	ResolveBest(ctx context.Context, tenantID uuid.UUID, query string) (similarity.Candidate[custrepo.ComClient], bool, error)
}

// ClientReader refetches a resolved client.
type ClientReader interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (custrepo.ComClient, error)
}

// Catalog exposes the purchase-history queries the heuristic needs.
type Catalog interface {
	ListPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]catrepo.Product, error)
	ListCategoriesPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]catrepo.Category, error)
	ListComplementary(ctx context.Context, tenantID uuid.UUID, categoryIDs, excludeProductIDs []uuid.UUID, limit int) ([]catrepo.Product, error)
}

// ClientNotFound creates the error returned when no client matches the query.
func ClientNotFound(query string) *apperr.Error {
	return apperr.NotFound(fmt.Sprintf("client %s not found", query))
}

// Recommender computes complementary-product recommendations.
type Recommender struct {
	resolver ClientResolver
	clients  ClientReader
	catalog  Catalog
	log      *logger.Logger
}

// New creates a recommender.
func New(resolver ClientResolver, clients ClientReader, catalog Catalog, log *logger.Logger) *Recommender {
	return &Recommender{resolver: resolver, clients: clients, catalog: catalog, log: log}
}

// Recommend resolves clientName to its best match and returns up to limit
// products in that client's categories that it never bought. A client with
// no purchases gets an empty list.
func (r *Recommender) Recommend(ctx context.Context, tenantID uuid.UUID, clientName string, limit int) ([]catrepo.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	best, ok, err := r.resolver.ResolveBest(ctx, tenantID, clientName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ClientNotFound(clientName)
	}

	client, err := r.clients.GetByID(ctx, tenantID, best.Entity.ID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, ClientNotFound(clientName)
		}
		return nil, err
	}
	r.log.WithContext(ctx).Info("searching recommendations", "comClientId", client.ID, "name", client.Name, "distance", best.Distance)

	categories, err := r.catalog.ListCategoriesPurchasedBy(ctx, tenantID, client.ID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []catrepo.Product{}, nil
	}
	categoryIDs := make([]uuid.UUID, 0, len(categories))
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	purchased, err := r.catalog.ListPurchasedBy(ctx, tenantID, client.ID)
	if err != nil {
		return nil, err
	}
	purchasedIDs := make([]uuid.UUID, 0, len(purchased))
	for _, p := range purchased {
		purchasedIDs = append(purchasedIDs, p.ID)
	}

	return r.catalog.ListComplementary(ctx, tenantID, categoryIDs, purchasedIDs, limit)
}
