package repository

import (
	"context"
	"time"

	"comercial_backend/internal/ranking"
	"comercial_backend/internal/similarity"

	"github.com/google/uuid"
)

// ComClient is a commercial client (customer) of a tenant.
type ComClient struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Code         string
	Name         string
	Departamento *string
	Localidad    *string
	Direccion    *string
	Telefono     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains the fields for a new ComClient.
type CreateParams struct {
	TenantID     uuid.UUID
	Code         string
	Name         string
	Departamento *string
	Localidad    *string
	Direccion    *string
	Telefono     *string
}

// UpdateParams contains the fields replaced on an existing ComClient.
type UpdateParams struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Code         string
	Name         string
	Departamento *string
	Localidad    *string
	Direccion    *string
	Telefono     *string
}

// UpdateResult carries the updated row and the name it had before.
type UpdateResult struct {
	ComClient    ComClient
	PreviousName string
}

// BuyerFilter narrows the clients loaded as ranking candidates.
// A nil field does not filter.
type BuyerFilter struct {
	Departamento *string
	VendorID     *uuid.UUID
	FoldAccents  bool
}

// Repository defines ComClient persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (ComClient, error)
	// GetOrCreate returns the client with params.Code, inserting it when absent.
	GetOrCreate(ctx context.Context, params CreateParams) (ComClient, bool, error)
	Update(ctx context.Context, params UpdateParams) (UpdateResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (ComClient, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (ComClient, error)
	// GetByCodeContainedIn returns the first client whose code is a substring of text.
	GetByCodeContainedIn(ctx context.Context, tenantID uuid.UUID, text string) (ComClient, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]ComClient, error)
	ListByDepartamento(ctx context.Context, tenantID uuid.UUID, departamento string, fold bool, limit int) ([]ComClient, error)
	ListByLocalidad(ctx context.Context, tenantID uuid.UUID, localidad string, fold bool, limit int) ([]ComClient, error)
	// ListBuyerCandidates loads matching clients with their full sell history in one query.
	ListBuyerCandidates(ctx context.Context, tenantID uuid.UUID, filter BuyerFilter) ([]ranking.Candidate, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAll(ctx context.Context, tenantID uuid.UUID) error
	Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error)
}
