package service

import (
	"context"
	"strings"
	"time"

	"comercial_backend/internal/sells/ports"
	"comercial_backend/internal/sells/repository"
	"comercial_backend/internal/sells/transport"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// Service ingests and serves sells.
type Service struct {
	repo     repository.Repository
	clients  ports.ComClientResolver
	products ports.ProductReader
	vendors  ports.VendorUpserter
	log      *logger.Logger
}

// New creates a new sells service.
func New(repo repository.Repository, clients ports.ComClientResolver, products ports.ProductReader, vendors ports.VendorUpserter, log *logger.Logger) *Service {
	return &Service{repo: repo, clients: clients, products: products, vendors: vendors, log: log}
}

// Upsert records a sell. The client is created on first sight, the product
// must already exist, the vendor is upserted by name, and replaying the same
// (client, currency, product, vendor) overwrites the quantity.
func (s *Service) Upsert(ctx context.Context, tenantID uuid.UUID, req transport.UpsertSellRequest) (transport.SellResponse, error) {
	comClientID, err := s.clients.GetOrCreate(ctx, tenantID, ports.ComClientInput{
		Code:         strings.TrimSpace(req.ComClientCode),
		Name:         strings.TrimSpace(req.ComClientName),
		Departamento: req.Departamento,
		Localidad:    req.Localidad,
		Direccion:    req.Direccion,
		Telefono:     req.Telefono,
	})
	if err != nil {
		return transport.SellResponse{}, err
	}

	product, err := s.products.GetByExternalID(ctx, tenantID, strings.TrimSpace(req.ExternalID))
	if err != nil {
		return transport.SellResponse{}, err
	}

	vendorID, err := s.vendors.Upsert(ctx, tenantID, req.VendorName)
	if err != nil {
		return transport.SellResponse{}, err
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sell, err := s.repo.Upsert(ctx, repository.UpsertParams{
		TenantID:    tenantID,
		ExternalID:  product.ExternalID,
		Quantity:    quantity,
		Currency:    strings.TrimSpace(req.Currency),
		ComClientID: comClientID,
		ProductID:   product.ID,
		VendorID:    vendorID,
	})
	if err != nil {
		return transport.SellResponse{}, err
	}

	s.log.Info("sell upserted", "sellId", sell.ID, "comClientId", comClientID, "productId", product.ID, "quantity", quantity)
	return toSellResponse(repository.SellDetails{Sell: sell}), nil
}

// GetByID returns one sell with the names of what it references.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (transport.SellResponse, error) {
	details, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.SellResponse{}, err
	}
	return toSellResponse(details), nil
}

// List returns every sell of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]transport.SellResponse, error) {
	rows, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.SellResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, toSellResponse(d))
	}
	return out, nil
}

// Delete removes a sell.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.log.Info("sell deleted", "sellId", id)
	return nil
}

func toSellResponse(d repository.SellDetails) transport.SellResponse {
	return transport.SellResponse{
		ID:            d.ID,
		ExternalID:    d.ExternalID,
		Quantity:      d.Quantity,
		Currency:      d.Currency,
		ComClientID:   d.ComClientID,
		ProductID:     d.ProductID,
		VendorID:      d.VendorID,
		ComClientCode: d.ComClientCode,
		ComClientName: d.ComClientName,
		ProductName:   d.ProductName,
		CategoryName:  d.CategoryName,
		VendorName:    d.VendorName,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
}
