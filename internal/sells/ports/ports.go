// Package ports defines the interfaces the sells domain needs from other
// bounded contexts. Implementations live in internal/adapters.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// ComClientInput describes the client a sell belongs to.
type ComClientInput struct {
	Code         string
	Name         string
	Departamento *string
	Localidad    *string
	Direccion    *string
	Telefono     *string
}

// ComClientResolver returns the client with input.Code, creating it when absent.
type ComClientResolver interface {
	GetOrCreate(ctx context.Context, tenantID uuid.UUID, input ComClientInput) (uuid.UUID, error)
}

// ProductRef is the slice of a product the sells domain keeps.
type ProductRef struct {
	ID         uuid.UUID
	ExternalID string
}

// ProductReader resolves a product by its ranking number. A missing product
// is an apperr NotFound error.
type ProductReader interface {
	GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (ProductRef, error)
}

// VendorUpserter returns the id of the vendor named name, creating it on first sight.
type VendorUpserter interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, name string) (uuid.UUID, error)
}
