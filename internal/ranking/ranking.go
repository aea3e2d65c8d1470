// Package ranking computes top-N buyer aggregates over clients and their sell
// histories. It performs no I/O: callers load candidates with a single store
// round trip and pass them in.
package ranking

import (
	"sort"

	"github.com/google/uuid"
)

// DefaultLimit is the top-N applied when Criteria.Limit is not positive.
const DefaultLimit = 10

// Metric selects the aggregate computed per candidate.
type Metric int

const (
	// MetricSellCount counts matching sells.
	MetricSellCount Metric = iota
	// MetricFirstMatchQuantity takes the quantity of the first matching sell.
	MetricFirstMatchQuantity
	// MetricSumMatchingQuantity sums the quantity of every matching sell.
	MetricSumMatchingQuantity
)

// Client is the minimal client projection carried through a ranking.
type Client struct {
	ID           uuid.UUID
	Code         string
	Name         string
	Departamento *string
	Localidad    *string
	Direccion    *string
	Telefono     *string
}

// Sell is one line of a candidate's history, joined to its product and category.
type Sell struct {
	ProductCode       string
	ProductExternalID string
	CategoryName      string
	Quantity          int
}

// Candidate is a client with its full sell history.
type Candidate struct {
	Client Client
	Sells  []Sell
}

// Ranked is a candidate's projection and its aggregate value.
type Ranked struct {
	Client Client
	Value  int
}

// Criteria parameterizes Rank. A nil Match accepts every sell.
// With RequireMatch set, candidates with no matching sell are dropped.
type Criteria struct {
	Match        func(Sell) bool
	Metric       Metric
	RequireMatch bool
	Limit        int
}

// WithLimit returns a copy of c truncated to n entries.
func (c Criteria) WithLimit(n int) Criteria {
	c.Limit = n
	return c
}

// ByProductCode ranks buyers of the product with code by the quantity of
// their first sell of it.
func ByProductCode(code string) Criteria {
	return Criteria{
		Match:        func(s Sell) bool { return s.ProductCode == code },
		Metric:       MetricFirstMatchQuantity,
		RequireMatch: true,
		Limit:        DefaultLimit,
	}
}

// ByProductRanking ranks buyers of the product with the given ranking number.
func ByProductRanking(externalID string) Criteria {
	return Criteria{
		Match:        func(s Sell) bool { return s.ProductExternalID == externalID },
		Metric:       MetricFirstMatchQuantity,
		RequireMatch: true,
		Limit:        DefaultLimit,
	}
}

// ByCategory ranks buyers by the summed quantity of every sell in category.
// category must already be canonical.
func ByCategory(category string) Criteria {
	return Criteria{
		Match:        func(s Sell) bool { return s.CategoryName == category },
		Metric:       MetricSumMatchingQuantity,
		RequireMatch: true,
		Limit:        DefaultLimit,
	}
}

// AllSells ranks every candidate by total purchased quantity, including
// candidates without sells.
func AllSells() Criteria {
	return Criteria{Metric: MetricSumMatchingQuantity, Limit: DefaultLimit}
}

// SellCount ranks every candidate by number of sells.
func SellCount() Criteria {
	return Criteria{Metric: MetricSellCount, Limit: DefaultLimit}
}

// Rank scores candidates, orders them by descending value and truncates to
// the limit. Ties keep input order.
func Rank(candidates []Candidate, c Criteria) []Ranked {
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, cand := range candidates {
		value, matched := score(cand.Sells, c)
		if c.RequireMatch && !matched {
			continue
		}
		ranked = append(ranked, Ranked{Client: cand.Client, Value: value})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func score(sells []Sell, c Criteria) (int, bool) {
	value := 0
	matched := false
	for _, s := range sells {
		if c.Match != nil && !c.Match(s) {
			continue
		}
		switch c.Metric {
		case MetricFirstMatchQuantity:
			return s.Quantity, true
		case MetricSellCount:
			value++
		case MetricSumMatchingQuantity:
			value += s.Quantity
		}
		matched = true
	}
	return value, matched
}
