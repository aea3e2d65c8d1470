package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuyerCandidatesQueryIsTenantScoped(t *testing.T) {
	query, args := buyerCandidatesQuery(uuid.New(), BuyerFilter{})
	query = strings.ToLower(query)

	requiredFragments := []string{
		"from com_clients c",
		"left join sells s on s.com_client_id = c.id and s.tenant_id = c.tenant_id",
		"where c.tenant_id = $1",
		"order by c.created_at, c.id, s.created_at, s.id",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
	if len(args) != 1 {
		t.Fatalf("expected only the tenant argument, got %d", len(args))
	}
}

func TestBuyerCandidatesQueryNumbersFilterPlaceholders(t *testing.T) {
	dept := "  Montevideo "
	vendorID := uuid.New()
	query, args := buyerCandidatesQuery(uuid.New(), BuyerFilter{Departamento: &dept, VendorID: &vendorID})

	if !strings.Contains(query, "lower(c.departamento) = $2") {
		t.Fatalf("expected departamento predicate on $2, got %s", query)
	}
	if !strings.Contains(query, "cv.vendor_id = $3") {
		t.Fatalf("expected vendor predicate on $3, got %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[1] != "montevideo" {
		t.Fatalf("expected normalized departamento key, got %v", args[1])
	}
	if args[2] != vendorID {
		t.Fatalf("expected vendor id arg, got %v", args[2])
	}
}

func TestBuyerCandidatesQueryFoldsAccents(t *testing.T) {
	dept := "Paysandú"
	query, args := buyerCandidatesQuery(uuid.New(), BuyerFilter{Departamento: &dept, FoldAccents: true})

	if !strings.Contains(query, "translate(lower(c.departamento),") {
		t.Fatalf("expected translate() predicate, got %s", query)
	}
	if args[1] != "paysandu" {
		t.Fatalf("expected folded key, got %v", args[1])
	}
}

func TestLocationPredicateWithoutFolding(t *testing.T) {
	got := locationPredicate("localidad", 2, false)
	if got != "lower(localidad) = $2" {
		t.Fatalf("unexpected predicate %q", got)
	}
}

func TestCodeFragmentQueryPrefersOldestClient(t *testing.T) {
	query := strings.ToLower(getByCodeContainedInQuery)
	for _, fragment := range []string{"where tenant_id = $1", "strpos($2, code) > 0", "order by created_at, id", "limit 1"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
}

func TestNearestComClientsQueryFiltersByThreshold(t *testing.T) {
	query := strings.ToLower(nearestComClientsQuery)
	for _, fragment := range []string{"c.embedding <-> $2::vector", "c.tenant_id = $1", "distance < $3", "order by distance", "limit $4"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
}
