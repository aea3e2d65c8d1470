package ranking

import (
	"fmt"
	"math/rand"
	"testing"
)

func client(code string) Client {
	return Client{Code: code, Name: "Cliente " + code}
}

func TestByCategorySumsOnlyMatchingSells(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{
			{ProductCode: "P1", CategoryName: "12V", Quantity: 3},
			{ProductCode: "P2", CategoryName: "12V", Quantity: 4},
			{ProductCode: "P3", CategoryName: "220V", Quantity: 100},
		}},
		{Client: client("B"), Sells: []Sell{
			{ProductCode: "P1", CategoryName: "12V", Quantity: 10},
		}},
		{Client: client("C"), Sells: []Sell{
			{ProductCode: "P3", CategoryName: "220V", Quantity: 50},
		}},
	}

	got := Rank(candidates, ByCategory("12V"))
	if len(got) != 2 {
		t.Fatalf("expected 2 buyers, got %d", len(got))
	}
	if got[0].Client.Code != "B" || got[0].Value != 10 {
		t.Fatalf("expected B with 10 first, got %s with %d", got[0].Client.Code, got[0].Value)
	}
	if got[1].Client.Code != "A" || got[1].Value != 7 {
		t.Fatalf("expected A with 7 second, got %s with %d", got[1].Client.Code, got[1].Value)
	}
}

func TestByProductCodeUsesFirstMatchingSell(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{
			{ProductCode: "X", Quantity: 1},
			{ProductCode: "P1", Quantity: 5},
			{ProductCode: "P1", Quantity: 50},
		}},
		{Client: client("B"), Sells: []Sell{{ProductCode: "P1", Quantity: 6}}},
	}

	got := Rank(candidates, ByProductCode("P1"))
	if got[0].Client.Code != "B" || got[0].Value != 6 {
		t.Fatalf("expected B with 6, got %s with %d", got[0].Client.Code, got[0].Value)
	}
	if got[1].Value != 5 {
		t.Fatalf("expected first-match quantity 5 for A, got %d", got[1].Value)
	}
}

func TestByProductRankingFiltersByExternalID(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{{ProductExternalID: "101", Quantity: 2}}},
		{Client: client("B"), Sells: []Sell{{ProductExternalID: "102", Quantity: 9}}},
	}

	got := Rank(candidates, ByProductRanking("101"))
	if len(got) != 1 || got[0].Client.Code != "A" {
		t.Fatalf("expected only A, got %+v", got)
	}
}

func TestAllSellsKeepsClientsWithoutSells(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A")},
		{Client: client("B"), Sells: []Sell{{Quantity: 2}, {Quantity: 3}}},
	}

	got := Rank(candidates, AllSells())
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Client.Code != "B" || got[0].Value != 5 || got[1].Value != 0 {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}

func TestSellCountCountsSells(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{{Quantity: 100}}},
		{Client: client("B"), Sells: []Sell{{Quantity: 1}, {Quantity: 1}, {Quantity: 1}}},
	}

	got := Rank(candidates, SellCount())
	if got[0].Client.Code != "B" || got[0].Value != 3 {
		t.Fatalf("expected B with 3 sells first, got %+v", got[0])
	}
}

func TestTiesKeepInputOrder(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{{Quantity: 1}}},
		{Client: client("B"), Sells: []Sell{{Quantity: 1}}},
		{Client: client("C"), Sells: []Sell{{Quantity: 1}}},
	}

	got := Rank(candidates, AllSells())
	for i, want := range []string{"A", "B", "C"} {
		if got[i].Client.Code != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].Client.Code)
		}
	}
}

func TestRankIsSortedAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := []string{"12V", "220V", "Manuales"}

	for round := 0; round < 50; round++ {
		candidates := make([]Candidate, rng.Intn(40))
		for i := range candidates {
			sells := make([]Sell, rng.Intn(6))
			for j := range sells {
				sells[j] = Sell{
					ProductCode:  fmt.Sprintf("P%d", rng.Intn(4)),
					CategoryName: categories[rng.Intn(len(categories))],
					Quantity:     rng.Intn(20),
				}
			}
			candidates[i] = Candidate{Client: client(fmt.Sprintf("C%d", i)), Sells: sells}
		}

		for _, criteria := range []Criteria{ByCategory("12V"), ByProductCode("P1"), AllSells(), SellCount().WithLimit(3)} {
			got := Rank(candidates, criteria)
			if len(got) > criteria.Limit {
				t.Fatalf("expected at most %d entries, got %d", criteria.Limit, len(got))
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].Value < got[i].Value {
					t.Fatalf("expected non-increasing values, got %d then %d", got[i-1].Value, got[i].Value)
				}
			}
		}
	}
}

func TestRankEveryResultSatisfiesFilter(t *testing.T) {
	candidates := []Candidate{
		{Client: client("A"), Sells: []Sell{{CategoryName: "220V", Quantity: 5}}},
		{Client: client("B"), Sells: []Sell{{CategoryName: "12V", Quantity: 1}}},
	}

	for _, r := range Rank(candidates, ByCategory("12V")) {
		if r.Client.Code != "B" {
			t.Fatalf("unexpected buyer %s for category 12V", r.Client.Code)
		}
	}
}

func TestRankDefaultsLimit(t *testing.T) {
	candidates := make([]Candidate, 25)
	for i := range candidates {
		candidates[i] = Candidate{Client: client(fmt.Sprint(i))}
	}
	if got := Rank(candidates, Criteria{Metric: MetricSellCount}); len(got) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(got))
	}
}
