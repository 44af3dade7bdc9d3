package eco

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	DefaultCartAlternatives   = 3
	DefaultDetailAlternatives = 5
	MaxAlternatives           = 50
)

var (
	bandLow  = decimal.RequireFromString("0.8")
	bandHigh = decimal.RequireFromString("1.2")
)

// Item is the slice of a product the recommender needs.
type Item struct {
	ID       int
	Name     string
	Category string
	Price    float64
	EcoScore int
}

type Alternative struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	EcoScore    int     `json:"eco_score"`
	Improvement int     `json:"improvement"`
}

// Band is an inclusive price range computed in decimal so that edges like
// 0.8 × 24.99 are exact.
type Band struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func PriceBand(price float64) Band {
	p := decimal.NewFromFloat(price)
	return Band{Min: p.Mul(bandLow), Max: p.Mul(bandHigh)}
}

func (b Band) Contains(price float64) bool {
	p := decimal.NewFromFloat(price)
	return p.GreaterThanOrEqual(b.Min) && p.LessThanOrEqual(b.Max)
}

// Eligible reports whether c is a greener alternative to base.
func Eligible(base, c Item) bool {
	return c.ID != base.ID &&
		c.Category == base.Category &&
		c.EcoScore > base.EcoScore &&
		PriceBand(base.Price).Contains(c.Price)
}

// NormalizeLimit maps a requested limit onto [1, MaxAlternatives], using def
// for non-positive requests.
func NormalizeLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxAlternatives {
		limit = MaxAlternatives
	}
	return limit
}

// Rank filters candidates, orders them by eco score descending then id
// ascending, and keeps at most limit. The result is never nil.
func Rank(base Item, candidates []Item, limit int) []Alternative {
	kept := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		if Eligible(base, c) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].EcoScore != kept[j].EcoScore {
			return kept[i].EcoScore > kept[j].EcoScore
		}
		return kept[i].ID < kept[j].ID
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]Alternative, 0, len(kept))
	for _, c := range kept {
		out = append(out, Alternative{
			ID:          c.ID,
			Name:        c.Name,
			Price:       c.Price,
			EcoScore:    c.EcoScore,
			Improvement: c.EcoScore - base.EcoScore,
		})
	}
	return out
}
