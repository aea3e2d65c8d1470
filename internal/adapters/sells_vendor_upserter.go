package adapters

import (
	"context"

	"github.com/google/uuid"

	"comercial_backend/internal/sells/ports"
	vendsvc "comercial_backend/internal/vendors/service"
)

// SellsVendorUpserter adapts the vendors service for sell ingestion.
type SellsVendorUpserter struct {
	svc *vendsvc.Service
}

// NewSellsVendorUpserter creates a new vendor upserter adapter.
func NewSellsVendorUpserter(svc *vendsvc.Service) *SellsVendorUpserter {
	return &SellsVendorUpserter{svc: svc}
}

// Upsert returns the id of the vendor named name.
func (a *SellsVendorUpserter) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (uuid.UUID, error) {
	vendor, err := a.svc.Upsert(ctx, tenantID, name)
	if err != nil {
		return uuid.Nil, err
	}
	return vendor.ID, nil
}

var _ ports.VendorUpserter = (*SellsVendorUpserter)(nil)
