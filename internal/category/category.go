package category

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/eco-shop-backend/internal/product"
)

const DefaultLimit = 100

// Summary is the public DTO returned by the category API.
type Summary struct {
	Category        string `json:"category"`
	ProductCount    int    `json:"product_count"`
	AverageEcoScore int    `json:"average_eco_score"`
}

// averageScore rounds half-up; scores are never negative.
func averageScore(sum decimal.Decimal, count int) int {
	if count == 0 {
		return 0
	}
	return int(sum.Div(decimal.NewFromInt(int64(count))).Round(0).IntPart())
}

// summarize groups products by category, ordered by category name.
func summarize(products []product.Product) []Summary {
	type acc struct {
		count int
		sum   decimal.Decimal
	}
	groups := map[string]*acc{}
	for _, p := range products {
		g, ok := groups[p.Category]
		if !ok {
			g = &acc{sum: decimal.Zero}
			groups[p.Category] = g
		}
		g.count++
		g.sum = g.sum.Add(decimal.NewFromInt(int64(p.EcoScore)))
	}
	out := make([]Summary, 0, len(groups))
	for name, g := range groups {
		out = append(out, Summary{Category: name, ProductCount: g.count, AverageEcoScore: averageScore(g.sum, g.count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
