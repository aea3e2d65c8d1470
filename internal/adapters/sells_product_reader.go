package adapters

import (
	"context"

	"github.com/google/uuid"

	catsvc "comercial_backend/internal/catalog/service"
	"comercial_backend/internal/sells/ports"
)

// SellsProductReader adapts the catalog service for sell ingestion.
type SellsProductReader struct {
	svc *catsvc.Service
}

// NewSellsProductReader creates a new product reader adapter.
func NewSellsProductReader(svc *catsvc.Service) *SellsProductReader {
	return &SellsProductReader{svc: svc}
}

// GetByExternalID returns the product with the given ranking number.
func (a *SellsProductReader) GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (ports.ProductRef, error) {
	product, err := a.svc.GetByExternalID(ctx, tenantID, externalID)
	if err != nil {
		return ports.ProductRef{}, err
	}
	return ports.ProductRef{ID: product.ID, ExternalID: product.ExternalID}, nil
}

var _ ports.ProductReader = (*SellsProductReader)(nil)
