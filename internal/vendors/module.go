// Package vendors provides the vendor bounded context module.
package vendors

import (
	"comercial_backend/internal/events"
	apphttp "comercial_backend/internal/http"
	"comercial_backend/internal/vendors/handler"
	"comercial_backend/internal/vendors/repository"
	"comercial_backend/internal/vendors/service"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the vendors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the vendors module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{handler: handler.New(svc, val), service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "vendors"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts vendor routes on the tenant group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Tenant.GET("/vendors", m.handler.List)
	ctx.Tenant.GET("/vendors/:id", m.handler.Get)
	ctx.Tenant.PUT("/vendors/:id", m.handler.Rename)
	ctx.Tenant.DELETE("/vendors/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
