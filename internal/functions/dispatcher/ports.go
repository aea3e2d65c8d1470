package dispatcher

import (
	"context"

	catrepo "comercial_backend/internal/catalog/repository"
	custrepo "comercial_backend/internal/customers/repository"
	knowrepo "comercial_backend/internal/knowledge/repository"
	"comercial_backend/internal/ranking"
	"comercial_backend/internal/similarity"
	vendrepo "comercial_backend/internal/vendors/repository"

	"github.com/google/uuid"
)

// ProductStore serves exact product lookups.
type ProductStore interface {
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (catrepo.Product, error)
	GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (catrepo.Product, error)
	ListByCategoryName(ctx context.Context, tenantID uuid.UUID, categoryName string) ([]catrepo.Product, error)
}

// ProductSearch resolves product names by similarity.
type ProductSearch interface {
	Resolve(ctx context.Context, tenantID uuid.UUID, query string, opts similarity.Options) ([]similarity.Candidate[catrepo.Product], error)
}

// ClientStore serves exact client lookups and buyer rankings.
type ClientStore interface {
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (custrepo.ComClient, error)
	ListByDepartamento(ctx context.Context, tenantID uuid.UUID, departamento string) ([]custrepo.ComClient, error)
	ListByLocalidad(ctx context.Context, tenantID uuid.UUID, localidad string) ([]custrepo.ComClient, error)
	RankBuyers(ctx context.Context, tenantID uuid.UUID, filter custrepo.BuyerFilter, criteria ranking.Criteria) ([]ranking.Ranked, error)
}

// ClientSearch resolves client names by similarity.
type ClientSearch interface {
	Resolve(ctx context.Context, tenantID uuid.UUID, query string, opts similarity.Options) ([]similarity.Candidate[custrepo.ComClient], error)
}

// VendorStore serves exact vendor lookups.
type VendorStore interface {
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (vendrepo.Vendor, error)
}

// VendorSearch resolves vendor names by similarity.
type VendorSearch interface {
	ResolveBest(ctx context.Context, tenantID uuid.UUID, query string) (similarity.Candidate[vendrepo.Vendor], bool, error)
}

// Recommender suggests complementary products for a client.
type Recommender interface {
	Recommend(ctx context.Context, tenantID uuid.UUID, clientName string, limit int) ([]catrepo.Product, error)
}

// Knowledge serves documents and stores conversation summaries.
type Knowledge interface {
	GetDocument(ctx context.Context, tenantID uuid.UUID, docID string) (knowrepo.Document, error)
	GetSection(ctx context.Context, tenantID uuid.UUID, docID string, sequence int) (knowrepo.Section, error)
	RegisterSummary(ctx context.Context, tenantID uuid.UUID, conversationID, text string) (knowrepo.Summary, error)
}
