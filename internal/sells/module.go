// Package sells provides the sells bounded context module.
package sells

import (
	apphttp "comercial_backend/internal/http"
	"comercial_backend/internal/sells/handler"
	"comercial_backend/internal/sells/ports"
	"comercial_backend/internal/sells/repository"
	"comercial_backend/internal/sells/service"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the sells bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the sells module.
func NewModule(pool *pgxpool.Pool, clients ports.ComClientResolver, products ports.ProductReader, vendors ports.VendorUpserter, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), clients, products, vendors, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sells"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sell routes on the tenant group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Tenant.GET("/sells", m.handler.List)
	ctx.Tenant.POST("/sells", m.handler.Upsert)
	ctx.Tenant.GET("/sells/:id", m.handler.Get)
	ctx.Tenant.DELETE("/sells/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
