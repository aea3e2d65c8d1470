package recommendation

import (
	"context"
	"errors"
	"testing"

	catrepo "comercial_backend/internal/catalog/repository"
	custrepo "comercial_backend/internal/customers/repository"
	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeResolver struct {
	best  custrepo.ComClient
	found bool
	err   error
}

func (f fakeResolver) ResolveBest(context.Context, uuid.UUID, string) (similarity.Candidate[custrepo.ComClient], bool, error) {
	return similarity.Candidate[custrepo.ComClient]{Entity: f.best, Distance: 0.2}, f.found, f.err
}

type fakeClients struct {
	clients map[uuid.UUID]custrepo.ComClient
}

func (f fakeClients) GetByID(_ context.Context, _, id uuid.UUID) (custrepo.ComClient, error) {
	if c, ok := f.clients[id]; ok {
		return c, nil
	}
	return custrepo.ComClient{}, apperr.NotFound("comclient not found")
}

// fakeCatalog models products with a category and a set of buyers.
type fakeCatalog struct {
	products []catrepo.Product
	buyers   map[uuid.UUID][]uuid.UUID
}

func (f fakeCatalog) bought(clientID, productID uuid.UUID) bool {
	for _, b := range f.buyers[productID] {
		if b == clientID {
			return true
		}
	}
	return false
}

func (f fakeCatalog) ListPurchasedBy(_ context.Context, _, clientID uuid.UUID) ([]catrepo.Product, error) {
	out := []catrepo.Product{}
	for _, p := range f.products {
		if f.bought(clientID, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeCatalog) ListCategoriesPurchasedBy(_ context.Context, _, clientID uuid.UUID) ([]catrepo.Category, error) {
	seen := map[uuid.UUID]bool{}
	out := []catrepo.Category{}
	for _, p := range f.products {
		if f.bought(clientID, p.ID) && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			out = append(out, catrepo.Category{ID: p.CategoryID, Name: p.CategoryName})
		}
	}
	return out, nil
}

func (f fakeCatalog) ListComplementary(_ context.Context, _ uuid.UUID, categoryIDs, exclude []uuid.UUID, limit int) ([]catrepo.Product, error) {
	in := func(id uuid.UUID, ids []uuid.UUID) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}
	out := []catrepo.Product{}
	for _, p := range f.products {
		if in(p.CategoryID, categoryIDs) && !in(p.ID, exclude) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func fixture() (custrepo.ComClient, fakeCatalog) {
	client := custrepo.ComClient{ID: uuid.New(), Name: "Ferretería Sur", Code: "C1"}
	tools, paint := uuid.New(), uuid.New()
	drill := catrepo.Product{ID: uuid.New(), Name: "Taladro", CategoryID: tools, CategoryName: "12V"}
	saw := catrepo.Product{ID: uuid.New(), Name: "Sierra", CategoryID: tools, CategoryName: "12V"}
	driver := catrepo.Product{ID: uuid.New(), Name: "Atornillador", CategoryID: tools, CategoryName: "12V"}
	brush := catrepo.Product{ID: uuid.New(), Name: "Pincel", CategoryID: paint, CategoryName: "Pinturas"}
	return client, fakeCatalog{
		products: []catrepo.Product{drill, saw, driver, brush},
		buyers:   map[uuid.UUID][]uuid.UUID{drill.ID: {client.ID}},
	}
}

func TestRecommendReturnsUnboughtProductsInPurchasedCategories(t *testing.T) {
	client, catalog := fixture()
	r := New(fakeResolver{best: client, found: true}, fakeClients{clients: map[uuid.UUID]custrepo.ComClient{client.ID: client}}, catalog, logger.New("test"))

	products, err := r.Recommend(context.Background(), uuid.New(), "ferreteria sur", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 complementary products, got %d", len(products))
	}
	for _, p := range products {
		if p.Name == "Taladro" {
			t.Fatal("already purchased product must not be recommended")
		}
		if p.CategoryName != "12V" {
			t.Fatalf("expected only purchased categories, got %s", p.CategoryName)
		}
	}
}

func TestRecommendRespectsLimit(t *testing.T) {
	client, catalog := fixture()
	r := New(fakeResolver{best: client, found: true}, fakeClients{clients: map[uuid.UUID]custrepo.ComClient{client.ID: client}}, catalog, logger.New("test"))

	products, err := r.Recommend(context.Background(), uuid.New(), "x", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
}

func TestRecommendUnresolvedClientIsClientNotFound(t *testing.T) {
	_, catalog := fixture()
	r := New(fakeResolver{}, fakeClients{}, catalog, logger.New("test"))

	_, err := r.Recommend(context.Background(), uuid.New(), "Nadie", 10)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "client Nadie not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRecommendVanishedClientIsClientNotFound(t *testing.T) {
	client, catalog := fixture()
	r := New(fakeResolver{best: client, found: true}, fakeClients{}, catalog, logger.New("test"))

	_, err := r.Recommend(context.Background(), uuid.New(), "Ferretería", 10)
	if err == nil || err.Error() != "client Ferretería not found" {
		t.Fatalf("expected client not found, got %v", err)
	}
}

func TestRecommendWithoutPurchasesIsEmpty(t *testing.T) {
	client, catalog := fixture()
	catalog.buyers = map[uuid.UUID][]uuid.UUID{}
	r := New(fakeResolver{best: client, found: true}, fakeClients{clients: map[uuid.UUID]custrepo.ComClient{client.ID: client}}, catalog, logger.New("test"))

	products, err := r.Recommend(context.Background(), uuid.New(), "x", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(products))
	}
}

func TestRecommendPropagatesResolverFailure(t *testing.T) {
	boom := errors.New("embedding down")
	r := New(fakeResolver{err: boom}, fakeClients{}, fakeCatalog{}, logger.New("test"))

	if _, err := r.Recommend(context.Background(), uuid.New(), "x", 10); !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}
