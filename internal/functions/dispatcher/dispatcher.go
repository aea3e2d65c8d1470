// Package dispatcher executes agent function calls against the tenant's data
// and serializes their results into transcript text.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"comercial_backend/internal/functions/registry"
	"comercial_backend/internal/ranking"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

// HandlerFunc runs one function. A returned error is unexpected; expected
// misses are reported through Result.
type HandlerFunc func(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error)

// Response is what Invoke hands back to the agent loop.
type Response struct {
	Result  string  `json:"result"`
	Outcome Outcome `json:"-"`
	Handoff bool    `json:"handoff"`
}

// Deps are the stores and resolvers the handlers read from.
type Deps struct {
	Products      ProductStore
	ProductSearch ProductSearch
	Clients       ClientStore
	ClientSearch  ClientSearch
	Vendors       VendorStore
	VendorSearch  VendorSearch
	Recommender   Recommender
	Knowledge     Knowledge

	// TopN caps buyer rankings and vendor client lists.
	TopN     int
	Location *time.Location
	Now      func() time.Time
}

// Dispatcher maps function names to handlers.
type Dispatcher struct {
	deps     Deps
	handlers map[string]HandlerFunc
	log      *logger.Logger
}

// New builds the dispatcher and checks that every registered function has
// exactly one handler.
func New(deps Deps, log *logger.Logger) (*Dispatcher, error) {
	if deps.TopN <= 0 {
		deps.TopN = ranking.DefaultLimit
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	d := &Dispatcher{deps: deps, log: log}
	d.handlers = map[string]HandlerFunc{
		"getDateOfNow":                        d.getDateOfNow,
		"notifyHuman":                         d.notifyHuman,
		"getDocument":                         d.getDocument,
		"getSection":                          d.getSection,
		"echoRegister":                        d.echoRegister,
		"completarFrase":                      d.completarFrase,
		"getProductByCode":                    d.getProductByCode,
		"getProductByRanking":                 d.getProductByRanking,
		"getProductsByName":                   d.getProductsByName,
		"getProductsByCategoryName":           d.getProductsByCategoryName,
		"getClientByCode":                     d.getClientByCode,
		"getClientsByName":                    d.getClientsByName,
		"getClientsOfVendor":                  d.getClientsOfVendor,
		"getBuyersOfProductByCode":            d.getBuyersOfProductByCode,
		"getBuyersOfProductByRanking":         d.getBuyersOfProductByRanking,
		"getBuyersOfProductByCategory":        d.getBuyersOfProductByCategory,
		"getClientsByDepartamento":            d.getClientsByDepartamento,
		"getClientsByLocalidad":               d.getClientsByLocalidad,
		"getProductsRecomendationsForClient":  d.getProductsRecomendationsForClient,
		"getTopBuyers":                        d.getTopBuyers,
		"getTopBuyersByDepartamento":          d.getTopBuyersByDepartamento,
		"getTopBuyersByDepartamentoAndVendor": d.getTopBuyersByDepartamentoAndVendor,
	}

	if err := checkHandlers(registry.Names(), d.handlers); err != nil {
		return nil, err
	}
	return d, nil
}

func checkHandlers(names []string, handlers map[string]HandlerFunc) error {
	registered := make(map[string]struct{}, len(names))
	var missing, extra []string
	for _, name := range names {
		registered[name] = struct{}{}
		if _, ok := handlers[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range handlers {
		if _, ok := registered[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return fmt.Errorf("function handlers out of sync with registry: missing [%s], unregistered [%s]",
		strings.Join(missing, ", "), strings.Join(extra, ", "))
}

// Invoke runs the named function for tenantID. Names outside the registry
// return the not-found sentinel without touching any store. Store and
// embedding failures are returned as errors.
func (d *Dispatcher) Invoke(ctx context.Context, tenantID uuid.UUID, name string, args map[string]any) (Response, error) {
	log := d.log.WithContext(ctx)

	if _, err := registry.Lookup(name); err != nil {
		if errors.Is(err, registry.ErrUnknownFunction) {
			log.Warn("unknown function call", "function", name)
			return Response{Result: FunctionNotFound, Outcome: OutcomeUnknownFunction}, nil
		}
		return Response{}, err
	}
	handler := d.handlers[name]

	log.FunctionCall(tenantID, name, args)

	result, err := handler(ctx, tenantID, Args(args))
	if err != nil {
		log.Error("function call failed", "function", name, "error", err)
		return Response{}, fmt.Errorf("%s: %w", name, err)
	}

	text, err := result.Transcript()
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", name, err)
	}

	return Response{
		Result:  text,
		Outcome: result.Outcome,
		Handoff: registry.RequiresHumanHandoff(name),
	}, nil
}
