// Package catalog provides the catalog bounded context module: products and
// their categories.
package catalog

import (
	"comercial_backend/internal/catalog/handler"
	"comercial_backend/internal/catalog/repository"
	"comercial_backend/internal/catalog/service"
	"comercial_backend/internal/events"
	apphttp "comercial_backend/internal/http"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the tenant group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Tenant.GET("/products", m.handler.ListProducts)
	ctx.Tenant.POST("/products", m.handler.UpsertProduct)
	ctx.Tenant.DELETE("/products", m.handler.DeleteAllProducts)
	ctx.Tenant.GET("/products/:id", m.handler.GetProduct)
	ctx.Tenant.DELETE("/products/:id", m.handler.DeleteProduct)
	ctx.Tenant.GET("/categories", m.handler.ListCategories)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
