package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	catrepo "comercial_backend/internal/catalog/repository"
	custrepo "comercial_backend/internal/customers/repository"
	knowrepo "comercial_backend/internal/knowledge/repository"
	"comercial_backend/internal/ranking"
	"comercial_backend/internal/recommendation"
	"comercial_backend/internal/similarity"
	vendrepo "comercial_backend/internal/vendors/repository"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore backs every port and counts the calls it receives.
type fakeStore struct {
	calls int

	products      map[string]catrepo.Product
	byCategory    map[string][]catrepo.Product
	productHits   []similarity.Candidate[catrepo.Product]
	clients       map[string]custrepo.ComClient
	byLocation    []custrepo.ComClient
	clientHits    []similarity.Candidate[custrepo.ComClient]
	vendorHit     *vendrepo.Vendor
	vendorsByName map[string]vendrepo.Vendor
	ranked        []ranking.Ranked
	rankErr       error
	lastFilter    custrepo.BuyerFilter
	lastCriteria  ranking.Criteria
	recommended   []catrepo.Product
	recommendErr  error
	summaryErr    error
	summaries     []string
}

func (f *fakeStore) GetByCode(_ context.Context, _ uuid.UUID, code string) (catrepo.Product, error) {
	f.calls++
	p, ok := f.products[code]
	if !ok {
		return catrepo.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (f *fakeStore) GetByExternalID(_ context.Context, _ uuid.UUID, externalID string) (catrepo.Product, error) {
	f.calls++
	for _, p := range f.products {
		if p.ExternalID == externalID {
			return p, nil
		}
	}
	return catrepo.Product{}, apperr.NotFound("product not found")
}

func (f *fakeStore) ListByCategoryName(_ context.Context, _ uuid.UUID, category string) ([]catrepo.Product, error) {
	f.calls++
	return f.byCategory[category], nil
}

type productSearch struct{ *fakeStore }

func (s productSearch) Resolve(context.Context, uuid.UUID, string, similarity.Options) ([]similarity.Candidate[catrepo.Product], error) {
	s.calls++
	return s.productHits, nil
}

type clientStore struct{ *fakeStore }

func (s clientStore) GetByCode(_ context.Context, _ uuid.UUID, code string) (custrepo.ComClient, error) {
	s.calls++
	c, ok := s.clients[code]
	if !ok {
		return custrepo.ComClient{}, apperr.NotFound("client not found")
	}
	return c, nil
}

func (s clientStore) ListByDepartamento(context.Context, uuid.UUID, string) ([]custrepo.ComClient, error) {
	s.calls++
	return s.byLocation, nil
}

func (s clientStore) ListByLocalidad(context.Context, uuid.UUID, string) ([]custrepo.ComClient, error) {
	s.calls++
	return s.byLocation, nil
}

func (s clientStore) RankBuyers(_ context.Context, _ uuid.UUID, filter custrepo.BuyerFilter, criteria ranking.Criteria) ([]ranking.Ranked, error) {
	s.calls++
	s.lastFilter = filter
	s.lastCriteria = criteria
	return s.ranked, s.rankErr
}

type clientSearch struct{ *fakeStore }

func (s clientSearch) Resolve(context.Context, uuid.UUID, string, similarity.Options) ([]similarity.Candidate[custrepo.ComClient], error) {
	s.calls++
	return s.clientHits, nil
}

type vendorStore struct{ *fakeStore }

func (s vendorStore) GetByName(_ context.Context, _ uuid.UUID, name string) (vendrepo.Vendor, error) {
	s.calls++
	v, ok := s.vendorsByName[name]
	if !ok {
		return vendrepo.Vendor{}, apperr.NotFound("vendor not found")
	}
	return v, nil
}

type vendorSearch struct{ *fakeStore }

func (s vendorSearch) ResolveBest(context.Context, uuid.UUID, string) (similarity.Candidate[vendrepo.Vendor], bool, error) {
	s.calls++
	if s.vendorHit == nil {
		return similarity.Candidate[vendrepo.Vendor]{}, false, nil
	}
	return similarity.Candidate[vendrepo.Vendor]{Entity: *s.vendorHit, Distance: 0.2}, true, nil
}

type recommender struct{ *fakeStore }

func (s recommender) Recommend(context.Context, uuid.UUID, string, int) ([]catrepo.Product, error) {
	s.calls++
	return s.recommended, s.recommendErr
}

type knowledge struct{ *fakeStore }

func (s knowledge) GetDocument(_ context.Context, _ uuid.UUID, docID string) (knowrepo.Document, error) {
	s.calls++
	return knowrepo.Document{}, apperr.NotFound("document not found")
}

func (s knowledge) GetSection(_ context.Context, _ uuid.UUID, docID string, sequence int) (knowrepo.Section, error) {
	s.calls++
	id, err := uuid.Parse(docID)
	if err != nil {
		return knowrepo.Section{}, apperr.NotFound("section not found")
	}
	text := "contenido"
	return knowrepo.Section{DocumentID: id, DocumentName: "Manual", Sequence: sequence, Text: &text}, nil
}

func (s knowledge) RegisterSummary(_ context.Context, _ uuid.UUID, _ string, text string) (knowrepo.Summary, error) {
	s.calls++
	if s.summaryErr != nil {
		return knowrepo.Summary{}, s.summaryErr
	}
	s.summaries = append(s.summaries, text)
	return knowrepo.Summary{ID: uuid.New(), Summary: text}, nil
}

func newTestDispatcher(t *testing.T, store *fakeStore) *Dispatcher {
	t.Helper()
	d, err := New(Deps{
		Products:      store,
		ProductSearch: productSearch{store},
		Clients:       clientStore{store},
		ClientSearch:  clientSearch{store},
		Vendors:       vendorStore{store},
		VendorSearch:  vendorSearch{store},
		Recommender:   recommender{store},
		Knowledge:     knowledge{store},
		TopN:          10,
		Location:      time.FixedZone("UYT", -3*60*60),
		Now:           func() time.Time { return time.Date(2024, 3, 5, 12, 4, 9, 0, time.UTC) },
	}, logger.New("test"))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func invoke(t *testing.T, d *Dispatcher, name string, args map[string]any) Response {
	t.Helper()
	resp, err := d.Invoke(context.Background(), uuid.New(), name, args)
	if err != nil {
		t.Fatalf("invoke %s: %v", name, err)
	}
	return resp
}

func TestInvokeUnknownFunctionSkipsStores(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(t, store)

	resp := invoke(t, d, "dropAllTables", map[string]any{"code": "X"})
	if resp.Result != FunctionNotFound {
		t.Fatalf("expected %q, got %q", FunctionNotFound, resp.Result)
	}
	if resp.Outcome != OutcomeUnknownFunction || resp.Handoff {
		t.Fatalf("unexpected response %+v", resp)
	}
	if store.calls != 0 {
		t.Fatalf("expected no store access, got %d calls", store.calls)
	}
}

func TestEveryRegisteredFunctionHasHandler(t *testing.T) {
	if err := checkHandlers([]string{"a", "b"}, map[string]HandlerFunc{"a": nil}); err == nil {
		t.Fatal("expected missing handler error")
	}
	if err := checkHandlers([]string{"a"}, map[string]HandlerFunc{"a": nil, "z": nil}); err == nil {
		t.Fatal("expected unregistered handler error")
	}
	newTestDispatcher(t, &fakeStore{})
}

func TestNotifyHumanRequestsHandoff(t *testing.T) {
	d := newTestDispatcher(t, &fakeStore{})

	resp := invoke(t, d, "notifyHuman", nil)
	if !resp.Handoff {
		t.Fatal("expected handoff for notifyHuman")
	}
	if !strings.HasPrefix(resp.Result, `"dile al usuario`) {
		t.Fatalf("expected quoted instruction, got %s", resp.Result)
	}

	if invoke(t, d, "getDateOfNow", nil).Handoff {
		t.Fatal("expected no handoff for getDateOfNow")
	}
}

func TestGetDateOfNowUsesConfiguredZone(t *testing.T) {
	d := newTestDispatcher(t, &fakeStore{})

	resp := invoke(t, d, "getDateOfNow", nil)
	if resp.Result != `"5/3/2024, 9:04:09"` {
		t.Fatalf("unexpected date %s", resp.Result)
	}
}

func TestProductLookupMessages(t *testing.T) {
	store := &fakeStore{products: map[string]catrepo.Product{
		"T-100": {ExternalID: "42", Code: "T-100", Name: "Taladro", Stock: 3, PrecioUSD: decimal.RequireFromString("19.90"), CategoryName: "12V"},
	}}
	d := newTestDispatcher(t, store)

	if got := invoke(t, d, "getProductByCode", map[string]any{"code": "missing"}).Result; got != `"Producto no encontrado"` {
		t.Fatalf("unexpected miss result %s", got)
	}

	resp := invoke(t, d, "getProductByRanking", map[string]any{"ranking": float64(42)})
	var product map[string]any
	if err := json.Unmarshal([]byte(resp.Result), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if product["codigo"] != "T-100" || product["familia"] != "12V" || product["precioUSD"] != 19.9 {
		t.Fatalf("unexpected product %v", product)
	}
}

func TestCategoryAliasIsApplied(t *testing.T) {
	store := &fakeStore{byCategory: map[string][]catrepo.Product{"Explosion": {{Code: "M1", Name: "Motor"}}}}
	d := newTestDispatcher(t, store)

	resp := invoke(t, d, "getProductsByCategoryName", map[string]any{"categoryName": "explosión"})
	if resp.Outcome != OutcomeOK {
		t.Fatalf("expected products for aliased category, got %s", resp.Result)
	}

	store.ranked = nil
	invoke(t, d, "getBuyersOfProductByCategory", map[string]any{"categoryName": "12v"})
	if !store.lastCriteria.Match(ranking.Sell{CategoryName: "12V"}) {
		t.Fatal("expected criteria to match canonical 12V")
	}
}

func TestClientByCodeFillsEmptyFields(t *testing.T) {
	store := &fakeStore{clients: map[string]custrepo.ComClient{"C1": {Code: "C1", Name: "Ferretería Sur"}}}
	d := newTestDispatcher(t, store)

	resp := invoke(t, d, "getClientByCode", map[string]any{"code": "C1"})
	want := `{"code":"C1","name":"Ferretería Sur","departamento":"","localidad":"","direccion":"","telefono":""}`
	if resp.Result != want {
		t.Fatalf("expected %s, got %s", want, resp.Result)
	}
	if got := invoke(t, d, "getClientByCode", map[string]any{"code": "C9"}).Result; got != `"Cliente no encontrado"` {
		t.Fatalf("unexpected miss result %s", got)
	}
}

func TestTopBuyersUsesConfiguredLimit(t *testing.T) {
	store := &fakeStore{ranked: []ranking.Ranked{{Client: ranking.Client{Code: "C1", Name: "Uno"}, Value: 7}}}
	d := newTestDispatcher(t, store)

	resp := invoke(t, d, "getTopBuyers", nil)
	if !strings.Contains(resp.Result, `"cantCompras":7`) {
		t.Fatalf("unexpected result %s", resp.Result)
	}
	if store.lastCriteria.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", store.lastCriteria.Limit)
	}

	store.ranked = nil
	if got := invoke(t, d, "getTopBuyersByDepartamento", map[string]any{"departamento": "Salto"}).Result; got != `"No se encontraron clientes"` {
		t.Fatalf("unexpected empty result %s", got)
	}
	if store.lastFilter.Departamento == nil || *store.lastFilter.Departamento != "Salto" {
		t.Fatalf("expected departamento filter, got %+v", store.lastFilter)
	}
}

func TestVendorResolution(t *testing.T) {
	resolved := vendrepo.Vendor{ID: uuid.New(), Name: "Juan Perez"}
	exact := vendrepo.Vendor{ID: uuid.New(), Name: "Ana"}

	t.Run("similarity match is used directly", func(t *testing.T) {
		store := &fakeStore{vendorHit: &resolved, ranked: []ranking.Ranked{{Client: ranking.Client{Code: "C1"}, Value: 2}}}
		d := newTestDispatcher(t, store)

		resp := invoke(t, d, "getClientsOfVendor", map[string]any{"vendorName": "juan"})
		if !strings.Contains(resp.Result, `"cantVentas":2`) {
			t.Fatalf("unexpected result %s", resp.Result)
		}
		if store.lastFilter.VendorID == nil || *store.lastFilter.VendorID != resolved.ID {
			t.Fatalf("expected resolved vendor filter, got %+v", store.lastFilter)
		}
	})

	t.Run("falls back to exact name", func(t *testing.T) {
		store := &fakeStore{vendorsByName: map[string]vendrepo.Vendor{"Ana": exact}}
		d := newTestDispatcher(t, store)

		invoke(t, d, "getTopBuyersByDepartamentoAndVendor", map[string]any{"departamento": "Salto", "vendorName": "Ana"})
		if store.lastFilter.VendorID == nil || *store.lastFilter.VendorID != exact.ID {
			t.Fatalf("expected exact vendor filter, got %+v", store.lastFilter)
		}
	})

	t.Run("unknown vendor", func(t *testing.T) {
		d := newTestDispatcher(t, &fakeStore{})

		got := invoke(t, d, "getTopBuyersByDepartamentoAndVendor", map[string]any{"departamento": "Salto", "vendorName": "Nadie"}).Result
		if got != `"No se encontró un vendedor con el nombre: Nadie"` {
			t.Fatalf("unexpected result %s", got)
		}
		got = invoke(t, d, "getClientsOfVendor", map[string]any{"vendorName": "Nadie"}).Result
		if got != `"No se encontraron clientes de este vendedor"` {
			t.Fatalf("unexpected result %s", got)
		}
	})
}

func TestRecommendationOutcomes(t *testing.T) {
	store := &fakeStore{recommendErr: recommendation.ClientNotFound("Pepe")}
	d := newTestDispatcher(t, store)

	resp := invoke(t, d, "getProductsRecomendationsForClient", map[string]any{"clientName": "Pepe"})
	if resp.Result != `"client Pepe not found"` || resp.Outcome != OutcomeNotFound {
		t.Fatalf("unexpected response %+v", resp)
	}

	store.recommendErr = errors.New("db down")
	resp = invoke(t, d, "getProductsRecomendationsForClient", map[string]any{"clientName": "Pepe"})
	if resp.Result != `"Ocurrió un error inesperado"` || resp.Outcome != OutcomeFailed {
		t.Fatalf("unexpected response %+v", resp)
	}

	store.recommendErr = nil
	if got := invoke(t, d, "getProductsRecomendationsForClient", map[string]any{"clientName": "Pepe"}).Result; got != `"No se encontraron productos"` {
		t.Fatalf("unexpected empty result %s", got)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &fakeStore{rankErr: storeErr}
	d := newTestDispatcher(t, store)

	resp, err := d.Invoke(context.Background(), uuid.New(), "getTopBuyers", nil)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if resp != (Response{}) {
		t.Fatalf("expected empty response on failure, got %+v", resp)
	}
}

func TestSummaryFunctions(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(t, store)

	if got := invoke(t, d, "echoRegister", map[string]any{"conversationId": "c1"}).Result; got != `"Mensaje enviado"` {
		t.Fatalf("unexpected empty-text result %s", got)
	}
	if len(store.summaries) != 0 {
		t.Fatal("expected nothing stored for empty text")
	}

	got := invoke(t, d, "completarFrase", map[string]any{"conversationId": "c1", "texto": "hola"}).Result
	if got != `"Frase completada"` || len(store.summaries) != 1 {
		t.Fatalf("unexpected result %s", got)
	}

	store.summaryErr = errors.New("insert failed")
	got = invoke(t, d, "echoRegister", map[string]any{"conversationId": "c1", "text": "hola"}).Result
	if got != `"Error al registrar, pregunta al usuario si quiere que tu reintentes"` {
		t.Fatalf("unexpected failure result %s", got)
	}
}

func TestKnowledgeLookups(t *testing.T) {
	d := newTestDispatcher(t, &fakeStore{})

	if got := invoke(t, d, "getDocument", map[string]any{"docId": "nope"}).Result; got != `"Document not found"` {
		t.Fatalf("unexpected result %s", got)
	}
	if got := invoke(t, d, "getSection", map[string]any{"docId": uuid.NewString(), "secuence": "x"}).Result; got != `"Section not found"` {
		t.Fatalf("unexpected result %s", got)
	}

	docID := uuid.New()
	got := invoke(t, d, "getSection", map[string]any{"docId": docID.String(), "secuence": "2"}).Result
	want := `{"docId":"` + docID.String() + `","docName":"Manual","secuence":"2","content":"contenido"}`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
