package adapters

import (
	"context"

	"github.com/google/uuid"

	custsvc "comercial_backend/internal/customers/service"
	"comercial_backend/internal/customers/transport"
	"comercial_backend/internal/sells/ports"
)

// SellsComClientResolver adapts the customers service for sell ingestion.
// Creating a client through the service also requests its embedding.
type SellsComClientResolver struct {
	svc *custsvc.Service
}

// NewSellsComClientResolver creates a new client resolver adapter.
func NewSellsComClientResolver(svc *custsvc.Service) *SellsComClientResolver {
	return &SellsComClientResolver{svc: svc}
}

// GetOrCreate returns the id of the client with input.Code.
func (a *SellsComClientResolver) GetOrCreate(ctx context.Context, tenantID uuid.UUID, input ports.ComClientInput) (uuid.UUID, error) {
	client, err := a.svc.GetOrCreate(ctx, tenantID, transport.ComClientRequest{
		Code:         input.Code,
		Name:         input.Name,
		Departamento: input.Departamento,
		Localidad:    input.Localidad,
		Direccion:    input.Direccion,
		Telefono:     input.Telefono,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return client.ID, nil
}

var _ ports.ComClientResolver = (*SellsComClientResolver)(nil)
