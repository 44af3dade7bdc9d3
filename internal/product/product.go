package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

// Product is a catalog entry. The eco_* and ai_* fields are derived from the
// sustainability inputs whenever a product is created or updated and are
// never taken from a request body.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`

	Materials    []string `json:"materials"`
	Packaging    string   `json:"packaging"`
	ShippingType string   `json:"shipping_type"`
	EcoTags      []string `json:"eco_tags"`

	EcoScore     int           `json:"eco_score"`
	EcoBreakdown eco.Breakdown `json:"eco_breakdown"`
	AILabel      eco.Label     `json:"ai_label"`
	AIConfidence float64       `json:"ai_confidence"`
	AIKeywords   eco.Evidence  `json:"ai_keywords"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Product) Attributes() eco.Attributes {
	return eco.Attributes{
		Materials:    p.Materials,
		Packaging:    p.Packaging,
		ShippingType: p.ShippingType,
		EcoTags:      p.EcoTags,
	}
}

func (p Product) Item() eco.Item {
	return eco.Item{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, EcoScore: p.EcoScore}
}

// Input is what a client may send when creating or updating a product.
type Input struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	Image        *string  `json:"image,omitempty"`
	Materials    []string `json:"materials"`
	Packaging    string   `json:"packaging"`
	ShippingType string   `json:"shipping_type"`
	EcoTags      []string `json:"eco_tags"`
}

func (in Input) product() Product {
	return Product{
		Name:         in.Name,
		Brand:        in.Brand,
		Category:     in.Category,
		Price:        in.Price,
		Description:  in.Description,
		Image:        in.Image,
		Materials:    nonNil(in.Materials),
		Packaging:    in.Packaging,
		ShippingType: in.ShippingType,
		EcoTags:      nonNil(in.EcoTags),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const (
	SortNewest    = "newest"
	SortEcoDesc   = "eco_desc"
	SortEcoAsc    = "eco_asc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"

	DefaultPageSize = 12
	MaxPageSize     = 100
	// MaxPage keeps (Page-1)*Limit far from int overflow.
	MaxPage         = 1_000_000
)

// ListQuery filters and pages the catalog. Nil pointers mean "no filter".
type ListQuery struct {
	Category string
	Label    eco.Label
	MinScore *int
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	switch q.Sort {
	case SortEcoDesc, SortEcoAsc, SortPriceAsc, SortPriceDesc:
	default:
		q.Sort = SortNewest
	}
	return q
}

func (q ListQuery) offset() int { return (q.Page - 1) * q.Limit }

type ListResult struct {
	Page     int       `json:"page"`
	Total    int       `json:"total"`
	Pages    int       `json:"pages"`
	Products []Product `json:"products"`
}

// AlternativeQuery selects the neighborhood of a base product: same
// category, price inside [MinPrice, MaxPrice], eco score above MinScore.
type AlternativeQuery struct {
	Category  string
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	ExcludeID int
	MinScore  int
	Limit     int
}

func (q AlternativeQuery) matches(p Product) bool {
	price := decimal.NewFromFloat(p.Price)
	return p.ID != q.ExcludeID &&
		p.Category == q.Category &&
		p.EcoScore > q.MinScore &&
		price.GreaterThanOrEqual(q.MinPrice) &&
		price.LessThanOrEqual(q.MaxPrice)
}
