package repository

import (
	"strings"
	"testing"
)

func TestUpsertSellQueryUsesNaturalKey(t *testing.T) {
	query := strings.ToLower(upsertSellQuery)

	requiredFragments := []string{
		"on conflict (com_client_id, currency, product_id, vendor_id) do update",
		"quantity = excluded.quantity",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
	if strings.Contains(query, "quantity = sells.quantity +") {
		t.Fatal("replayed sells must overwrite the quantity, not accumulate it")
	}
}

func TestLinkVendorQueryIsIdempotent(t *testing.T) {
	if !strings.Contains(strings.ToLower(linkVendorQuery), "on conflict do nothing") {
		t.Fatal("expected vendor link insert to ignore existing links")
	}
}

func TestSellDetailsQueryIsTenantScoped(t *testing.T) {
	if !strings.Contains(strings.ToLower(sellDetailsQuery), "where s.tenant_id = $1") {
		t.Fatal("expected sell details query to be tenant scoped")
	}
}
