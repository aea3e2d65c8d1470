// Package functions provides the agent function-calling module: the catalog
// of callable functions and the dispatcher that runs them per tenant.
package functions

import (
	"fmt"
	"time"

	"comercial_backend/internal/catalog"
	catrepo "comercial_backend/internal/catalog/repository"
	"comercial_backend/internal/customers"
	custrepo "comercial_backend/internal/customers/repository"
	"comercial_backend/internal/functions/dispatcher"
	"comercial_backend/internal/functions/handler"
	apphttp "comercial_backend/internal/http"
	knowrepo "comercial_backend/internal/knowledge/repository"
	knowservice "comercial_backend/internal/knowledge/service"
	"comercial_backend/internal/recommendation"
	"comercial_backend/internal/similarity"
	"comercial_backend/internal/vendors"
	vendrepo "comercial_backend/internal/vendors/repository"
	"comercial_backend/platform/config"
	"comercial_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the configuration the functions module reads.
type Config interface {
	config.SimilarityConfig
	config.LocaleConfig
}

// Deps are the collaborators the module wires into the dispatcher.
type Deps struct {
	Pool      *pgxpool.Pool
	Embedder  similarity.Embedder
	Catalog   *catalog.Module
	Customers *customers.Module
	Vendors   *vendors.Module
	Config    Config
}

// Module is the functions module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	dispatcher *dispatcher.Dispatcher
}

// NewModule builds the similarity resolvers and the dispatcher.
func NewModule(deps Deps, log *logger.Logger) (*Module, error) {
	loc, err := time.LoadLocation(deps.Config.GetTimezone())
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	defaults := similarity.Options{
		Limit:       deps.Config.GetSimilarityLimit(),
		MaxDistance: deps.Config.GetSimilarityMaxDistance(),
	}
	products := similarity.New[catrepo.Product](similarity.KindProduct, deps.Embedder, deps.Catalog.Repository(), defaults,
		func(p catrepo.Product) string { return p.Name }, log)
	clients := similarity.New[custrepo.ComClient](similarity.KindComClient, deps.Embedder, deps.Customers.Repository(), defaults,
		func(c custrepo.ComClient) string { return c.Name }, log)
	vendorResolver := similarity.New[vendrepo.Vendor](similarity.KindVendor, deps.Embedder, deps.Vendors.Repository(), defaults,
		func(v vendrepo.Vendor) string { return v.Name }, log)

	knowledge := knowservice.New(knowrepo.New(deps.Pool), log)
	recommender := recommendation.New(clients, deps.Customers.Service(), deps.Catalog.Service(), log)

	disp, err := dispatcher.New(dispatcher.Deps{
		Products:      deps.Catalog.Service(),
		ProductSearch: products,
		Clients:       deps.Customers.Service(),
		ClientSearch:  clients,
		Vendors:       deps.Vendors.Service(),
		VendorSearch:  vendorResolver,
		Recommender:   recommender,
		Knowledge:     knowledge,
		TopN:          deps.Config.GetTopN(),
		Location:      loc,
	}, log)
	if err != nil {
		return nil, err
	}

	return &Module{handler: handler.New(disp), dispatcher: disp}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "functions"
}

// Dispatcher returns the dispatcher for in-process agent loops.
func (m *Module) Dispatcher() *dispatcher.Dispatcher {
	return m.dispatcher
}

// RegisterRoutes mounts the catalog on /api/v1 and invocation on the tenant group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/functions", m.handler.ListDefinitions)
	ctx.Tenant.POST("/functions/:name", m.handler.Invoke)
}

var _ apphttp.Module = (*Module)(nil)
