// Package customers provides the ComClient bounded context module.
package customers

import (
	"comercial_backend/internal/customers/handler"
	"comercial_backend/internal/customers/repository"
	"comercial_backend/internal/customers/service"
	"comercial_backend/internal/events"
	apphttp "comercial_backend/internal/http"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the customers module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, opts service.Options, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, opts, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts ComClient routes on the tenant group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Tenant.GET("/comclients", m.handler.List)
	ctx.Tenant.POST("/comclients", m.handler.Create)
	ctx.Tenant.DELETE("/comclients", m.handler.DeleteAll)
	ctx.Tenant.GET("/comclients/:id", m.handler.Get)
	ctx.Tenant.PUT("/comclients/:id", m.handler.Update)
	ctx.Tenant.DELETE("/comclients/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
