package service

import (
	"context"
	"strings"
	"time"

	"comercial_backend/internal/catalog/repository"
	"comercial_backend/internal/catalog/transport"
	"comercial_backend/internal/events"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// DefaultCategoryListLimit is how many products a category lookup returns.
const DefaultCategoryListLimit = 5

// Service provides business logic for the catalog.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// UpsertProduct creates the category if needed, upserts the product by
// (tenant, external id) and requests a new embedding when the name changed.
func (s *Service) UpsertProduct(ctx context.Context, tenantID uuid.UUID, req transport.UpsertProductRequest) (transport.ProductResponse, error) {
	categoryName := strings.TrimSpace(req.CategoryName)
	category, err := s.repo.GetOrCreateCategory(ctx, tenantID, categoryName)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	result, err := s.repo.UpsertProduct(ctx, repository.UpsertProductParams{
		TenantID:       tenantID,
		ExternalID:     strings.TrimSpace(req.ExternalID),
		Code:           strings.TrimSpace(req.Code),
		Name:           name,
		Stock:          req.Stock,
		PedidoEnOrigen: req.PedidoEnOrigen,
		PrecioUSD:      req.PrecioUSD,
		CategoryID:     category.ID,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	if result.Created || result.PreviousName != name {
		s.bus.Publish(ctx, events.NewEmbeddingRequested(tenantID, events.EntityProduct, result.Product.ID,
			events.ProductEmbedding{Nombre: name, Familia: category.Name}))
	}

	s.log.Info("product upserted", "productId", result.Product.ID, "externalId", result.Product.ExternalID, "created", result.Created)
	return ToProductResponse(result.Product), nil
}

// GetByID returns a product.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (repository.Product, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// GetByCode returns the first product with code.
func (s *Service) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (repository.Product, error) {
	return s.repo.GetByCode(ctx, tenantID, strings.TrimSpace(code))
}

// GetByExternalID returns the product with the given ranking number.
func (s *Service) GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (repository.Product, error) {
	return s.repo.GetByExternalID(ctx, tenantID, strings.TrimSpace(externalID))
}

// ListByCategoryName returns the first products of a category, matched case-insensitively.
func (s *Service) ListByCategoryName(ctx context.Context, tenantID uuid.UUID, categoryName string) ([]repository.Product, error) {
	return s.repo.ListByCategoryName(ctx, tenantID, strings.TrimSpace(categoryName), DefaultCategoryListLimit)
}

// List returns all products of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]transport.ProductResponse, error) {
	products, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}

// ListCategories returns the tenant's categories.
func (s *Service) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]transport.CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, transport.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "productId", id)
	return nil
}

// DeleteAll removes every product of the tenant.
func (s *Service) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	s.log.Info("products purged", "tenantId", tenantID, "deleted", n)
	return n, nil
}

// ListPurchasedBy returns the products a client has bought.
func (s *Service) ListPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]repository.Product, error) {
	return s.repo.ListPurchasedBy(ctx, tenantID, comClientID)
}

// ListCategoriesPurchasedBy returns the categories a client has bought from.
func (s *Service) ListCategoriesPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]repository.Category, error) {
	return s.repo.ListCategoriesPurchasedBy(ctx, tenantID, comClientID)
}

// ListComplementary returns products in categoryIDs excluding the given product ids.
func (s *Service) ListComplementary(ctx context.Context, tenantID uuid.UUID, categoryIDs, excludeProductIDs []uuid.UUID, limit int) ([]repository.Product, error) {
	return s.repo.ListComplementary(ctx, tenantID, categoryIDs, excludeProductIDs, limit)
}

// ToProductResponse maps a product row to its HTTP shape.
func ToProductResponse(p repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		Code:           p.Code,
		Name:           p.Name,
		Stock:          p.Stock,
		PedidoEnOrigen: p.PedidoEnOrigen,
		PrecioUSD:      p.PrecioUSD,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}
