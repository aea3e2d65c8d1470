package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	custrepo "comercial_backend/internal/customers/repository"
	"comercial_backend/internal/ranking"
	"comercial_backend/internal/resolution"
	"comercial_backend/internal/similarity"
	vendrepo "comercial_backend/internal/vendors/repository"
	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgProductNotFound  = "Producto no encontrado"
	msgNoProducts       = "No se encontraron productos"
	msgClientNotFound   = "Cliente no encontrado"
	msgNoClients        = "No se encontraron clientes"
	msgNoVendorClients  = "No se encontraron clientes de este vendedor"
	msgVendorNotFound   = "No se encontró un vendedor con el nombre: "
	msgDocumentNotFound = "Document not found"
	msgSectionNotFound  = "Section not found"
	msgMessageSent      = "Mensaje enviado"
	msgEchoRegistered   = "Echo registrado. Dile al usuario que su texto ya está registrado en el sistema"
	msgEchoFailed       = "Error al registrar, pregunta al usuario si quiere que tu reintentes"
	msgPhraseCompleted  = "Frase completada"
	msgPhraseFailed     = "Error al completar la frase, pregunta al usuario si quiere que tu reintentes"
	msgUnexpected       = "Ocurrió un error inesperado"
	msgHandoffToHuman   = "dile al usuario que un agente se va a comunicar con él, saluda y finaliza la conversación. No ofrezcas más ayuda, saluda y listo."
)

// --- agent helpers ---

func (d *Dispatcher) getDateOfNow(_ context.Context, _ uuid.UUID, _ Args) (Result, error) {
	now := d.deps.Now().In(d.deps.Location)
	return OK(fmt.Sprintf("%d/%d/%d, %d:%02d:%02d",
		now.Day(), int(now.Month()), now.Year(), now.Hour(), now.Minute(), now.Second())), nil
}

func (d *Dispatcher) notifyHuman(_ context.Context, _ uuid.UUID, _ Args) (Result, error) {
	return OK(msgHandoffToHuman), nil
}

func (d *Dispatcher) getDocument(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	doc, err := d.deps.Knowledge.GetDocument(ctx, tenantID, strings.TrimSpace(args.String("docId")))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return NotFound(msgDocumentNotFound), nil
		}
		return Result{}, err
	}
	return OK(toDocumentResult(doc)), nil
}

func (d *Dispatcher) getSection(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	sequence, ok := args.Int("secuence")
	if !ok {
		return NotFound(msgSectionNotFound), nil
	}
	section, err := d.deps.Knowledge.GetSection(ctx, tenantID, strings.TrimSpace(args.String("docId")), sequence)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return NotFound(msgSectionNotFound), nil
		}
		return Result{}, err
	}
	return OK(toSectionResult(section, args.String("secuence"))), nil
}

func (d *Dispatcher) echoRegister(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	return d.registerSummary(ctx, tenantID, args.String("conversationId"), args.String("text"), msgEchoRegistered, msgEchoFailed), nil
}

func (d *Dispatcher) completarFrase(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	return d.registerSummary(ctx, tenantID, args.String("conversationId"), args.String("texto"), msgPhraseCompleted, msgPhraseFailed), nil
}

// registerSummary stores text against the conversation. Storage failures are
// reported to the agent so it can offer a retry.
func (d *Dispatcher) registerSummary(ctx context.Context, tenantID uuid.UUID, conversationID, text, success, failure string) Result {
	if strings.TrimSpace(text) == "" {
		return OK(msgMessageSent)
	}
	if _, err := d.deps.Knowledge.RegisterSummary(ctx, tenantID, conversationID, text); err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return OK(msgMessageSent)
		}
		d.log.WithContext(ctx).Error("register summary failed", "conversation_id", conversationID, "error", err)
		return Failed(failure)
	}
	return OK(success)
}

// --- products ---

func (d *Dispatcher) getProductByCode(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	product, err := d.deps.Products.GetByCode(ctx, tenantID, strings.TrimSpace(args.String("code")))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return NotFound(msgProductNotFound), nil
		}
		return Result{}, err
	}
	return OK(toProductResult(product)), nil
}

func (d *Dispatcher) getProductByRanking(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	product, err := d.deps.Products.GetByExternalID(ctx, tenantID, strings.TrimSpace(args.String("ranking")))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return NotFound(msgProductNotFound), nil
		}
		return Result{}, err
	}
	return OK(toProductResult(product)), nil
}

func (d *Dispatcher) getProductsByName(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	candidates, err := d.deps.ProductSearch.Resolve(ctx, tenantID, args.String("name"), similarity.Options{})
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return NotFound(msgNoProducts), nil
	}
	return OK(toSimilarProductResults(candidates)), nil
}

func (d *Dispatcher) getProductsByCategoryName(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	category := resolution.CanonicalCategory(strings.TrimSpace(args.String("categoryName")))
	products, err := d.deps.Products.ListByCategoryName(ctx, tenantID, category)
	if err != nil {
		return Result{}, err
	}
	if len(products) == 0 {
		return NotFound(msgNoProducts), nil
	}
	return OK(toProductResults(products)), nil
}

func (d *Dispatcher) getProductsRecomendationsForClient(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	products, err := d.deps.Recommender.Recommend(ctx, tenantID, args.String("clientName"), 0)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return NotFound(appErr.Message), nil
		}
		d.log.WithContext(ctx).Error("recommendation failed", "error", err)
		return Failed(msgUnexpected), nil
	}
	if len(products) == 0 {
		return NotFound(msgNoProducts), nil
	}
	return OK(toProductResults(products)), nil
}

// --- clients ---

func (d *Dispatcher) getClientByCode(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	client, err := d.deps.Clients.GetByCode(ctx, tenantID, strings.TrimSpace(args.String("code")))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return NotFound(msgClientNotFound), nil
		}
		return Result{}, err
	}
	return OK(toClientByCodeResult(client)), nil
}

func (d *Dispatcher) getClientsByName(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	candidates, err := d.deps.ClientSearch.Resolve(ctx, tenantID, args.String("name"), similarity.Options{})
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return NotFound(msgNoClients), nil
	}
	return OK(toSimilarClientResults(candidates)), nil
}

func (d *Dispatcher) getClientsByDepartamento(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	clients, err := d.deps.Clients.ListByDepartamento(ctx, tenantID, args.String("departamento"))
	if err != nil {
		return Result{}, err
	}
	if len(clients) == 0 {
		return NotFound(msgNoClients), nil
	}
	return OK(toClientResults(clients)), nil
}

func (d *Dispatcher) getClientsByLocalidad(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	clients, err := d.deps.Clients.ListByLocalidad(ctx, tenantID, args.String("localidad"))
	if err != nil {
		return Result{}, err
	}
	if len(clients) == 0 {
		return NotFound(msgNoClients), nil
	}
	return OK(toClientResults(clients)), nil
}

func (d *Dispatcher) getClientsOfVendor(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	vendor, ok, err := d.resolveVendor(ctx, tenantID, args.String("vendorName"))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return NotFound(msgNoVendorClients), nil
	}
	ranked, err := d.deps.Clients.RankBuyers(ctx, tenantID, custrepo.BuyerFilter{VendorID: &vendor.ID}, ranking.SellCount().WithLimit(d.deps.TopN))
	if err != nil {
		return Result{}, err
	}
	if len(ranked) == 0 {
		return NotFound(msgNoVendorClients), nil
	}
	return OK(toSellsCountResults(ranked)), nil
}

// --- buyer rankings ---

func (d *Dispatcher) getBuyersOfProductByCode(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	return d.rankBuyers(ctx, tenantID, custrepo.BuyerFilter{}, ranking.ByProductCode(strings.TrimSpace(args.String("code"))))
}

func (d *Dispatcher) getBuyersOfProductByRanking(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	return d.rankBuyers(ctx, tenantID, custrepo.BuyerFilter{}, ranking.ByProductRanking(strings.TrimSpace(args.String("ranking"))))
}

func (d *Dispatcher) getBuyersOfProductByCategory(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	category := resolution.CanonicalCategory(strings.TrimSpace(args.String("categoryName")))
	return d.rankBuyers(ctx, tenantID, custrepo.BuyerFilter{}, ranking.ByCategory(category))
}

func (d *Dispatcher) getTopBuyers(ctx context.Context, tenantID uuid.UUID, _ Args) (Result, error) {
	return d.rankBuyers(ctx, tenantID, custrepo.BuyerFilter{}, ranking.AllSells())
}

func (d *Dispatcher) getTopBuyersByDepartamento(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	departamento := args.String("departamento")
	return d.rankBuyers(ctx, tenantID, custrepo.BuyerFilter{Departamento: &departamento}, ranking.AllSells())
}

func (d *Dispatcher) getTopBuyersByDepartamentoAndVendor(ctx context.Context, tenantID uuid.UUID, args Args) (Result, error) {
	vendorName := args.String("vendorName")
	vendor, ok, err := d.resolveVendor(ctx, tenantID, vendorName)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return NotFound(msgVendorNotFound + vendorName), nil
	}
	departamento := args.String("departamento")
	filter := custrepo.BuyerFilter{Departamento: &departamento, VendorID: &vendor.ID}
	return d.rankBuyers(ctx, tenantID, filter, ranking.AllSells())
}

func (d *Dispatcher) rankBuyers(ctx context.Context, tenantID uuid.UUID, filter custrepo.BuyerFilter, criteria ranking.Criteria) (Result, error) {
	ranked, err := d.deps.Clients.RankBuyers(ctx, tenantID, filter, criteria.WithLimit(d.deps.TopN))
	if err != nil {
		return Result{}, err
	}
	if len(ranked) == 0 {
		return NotFound(msgNoClients), nil
	}
	return OK(toBuyCountResults(ranked)), nil
}

// resolveVendor prefers the closest vendor by similarity and falls back to
// an exact name match when nothing is close enough.
func (d *Dispatcher) resolveVendor(ctx context.Context, tenantID uuid.UUID, name string) (vendrepo.Vendor, bool, error) {
	best, ok, err := d.deps.VendorSearch.ResolveBest(ctx, tenantID, name)
	if err != nil {
		return vendrepo.Vendor{}, false, err
	}
	if ok {
		return best.Entity, true, nil
	}
	vendor, err := d.deps.Vendors.GetByName(ctx, tenantID, strings.TrimSpace(name))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return vendrepo.Vendor{}, false, nil
		}
		return vendrepo.Vendor{}, false, err
	}
	return vendor, true, nil
}
