package service

import (
	"context"
	"strings"
	"time"

	"comercial_backend/internal/events"
	"comercial_backend/internal/vendors/repository"
	"comercial_backend/internal/vendors/transport"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for vendors.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new vendors service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Upsert returns the vendor named name, creating and embedding it on first sight.
func (s *Service) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (repository.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Vendor{}, apperr.Validation("vendor name is required")
	}

	vendor, created, err := s.repo.Upsert(ctx, tenantID, name)
	if err != nil {
		return repository.Vendor{}, err
	}
	if created {
		s.requestEmbedding(ctx, vendor)
		s.log.Info("vendor created", "vendorId", vendor.ID, "name", vendor.Name)
	}
	return vendor, nil
}

// Rename changes a vendor's name and re-embeds it when the name differs.
func (s *Service) Rename(ctx context.Context, tenantID, id uuid.UUID, req transport.RenameVendorRequest) (transport.VendorResponse, error) {
	result, err := s.repo.Rename(ctx, tenantID, id, strings.TrimSpace(req.Name))
	if err != nil {
		return transport.VendorResponse{}, err
	}
	if result.PreviousName != result.Vendor.Name {
		s.requestEmbedding(ctx, result.Vendor)
		s.log.Info("vendor renamed", "vendorId", id, "from", result.PreviousName, "to", result.Vendor.Name)
	}
	return ToVendorResponse(result.Vendor), nil
}

// GetByID returns a vendor.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (repository.Vendor, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// GetByName returns the vendor with exactly name.
func (s *Service) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (repository.Vendor, error) {
	return s.repo.GetByName(ctx, tenantID, name)
}

// List returns the tenant's vendors.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]transport.VendorResponse, error) {
	vendors, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, ToVendorResponse(v))
	}
	return out, nil
}

// Delete removes a vendor.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.log.Info("vendor deleted", "vendorId", id)
	return nil
}

// Vendor embeddings are computed from the bare name.
func (s *Service) requestEmbedding(ctx context.Context, vendor repository.Vendor) {
	s.bus.Publish(ctx, events.NewEmbeddingRequested(vendor.TenantID, events.EntityVendor, vendor.ID, vendor.Name))
}

// ToVendorResponse maps a vendor row to its HTTP shape.
func ToVendorResponse(v repository.Vendor) transport.VendorResponse {
	return transport.VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.Format(time.RFC3339),
	}
}
