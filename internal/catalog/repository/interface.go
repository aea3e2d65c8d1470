package repository

import (
	"context"
	"time"

	"comercial_backend/internal/similarity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products of a tenant.
type Category struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Product is a catalog row joined to its category name.
type Product struct {
	ID             uuid.UUID       `db:"id"`
	TenantID       uuid.UUID       `db:"tenant_id"`
	ExternalID     string          `db:"external_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	Stock          int             `db:"stock"`
	PedidoEnOrigen int             `db:"pedido_en_origen"`
	PrecioUSD      decimal.Decimal `db:"precio_usd"`
	CategoryID     uuid.UUID       `db:"category_id"`
	CategoryName   string          `db:"category_name"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// UpsertProductParams contains data for inserting or updating a product by
// (tenant, external id).
type UpsertProductParams struct {
	TenantID       uuid.UUID
	ExternalID     string
	Code           string
	Name           string
	Stock          int
	PedidoEnOrigen int
	PrecioUSD      decimal.Decimal
	CategoryID     uuid.UUID
}

// UpsertProductResult reports the stored row and the name it had before.
type UpsertProductResult struct {
	Product      Product
	Created      bool
	PreviousName string
}

// Repository defines catalog persistence. Every method is tenant scoped.
type Repository interface {
	GetOrCreateCategory(ctx context.Context, tenantID uuid.UUID, name string) (Category, error)
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]Category, error)

	UpsertProduct(ctx context.Context, params UpsertProductParams) (UpsertProductResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Product, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (Product, error)
	GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Product, error)
	ListByCategoryName(ctx context.Context, tenantID uuid.UUID, categoryName string, limit int) ([]Product, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error)

	ListPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]Product, error)
	ListCategoriesPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]Category, error)
	ListComplementary(ctx context.Context, tenantID uuid.UUID, categoryIDs, excludeProductIDs []uuid.UUID, limit int) ([]Product, error)

	Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error)
}
