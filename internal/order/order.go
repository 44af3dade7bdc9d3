package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

const StatusPlaced = "placed"

// Item is a cart line frozen at checkout. PricePaid is the line's locked
// price, not the product's current price.
type Item struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	PricePaid float64 `json:"price_paid"`
	EcoScore  int     `json:"eco_score"`
}

// Order represents a checked-out cart.
type Order struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Items       []Item    `json:"items"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	AvgEcoScore int       `json:"avg_eco_score"`
	Verdict     string    `json:"verdict"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromCart builds the order for a non-empty cart. The total is summed in
// decimal and rounded to cents.
func FromCart(c cart.Cart, now time.Time) Order {
	items := make([]Item, 0, len(c.Items))
	total := decimal.Zero
	for _, l := range c.Items {
		items = append(items, Item{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			PricePaid: l.LockedPrice,
			EcoScore:  l.EcoScoreSnapshot,
		})
		total = total.Add(decimal.NewFromFloat(l.LockedPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	score := eco.CartScore(c.Entries())
	return Order{
		UserID:      c.UserID,
		Items:       items,
		Quantity:    c.Quantity(),
		TotalAmount: total.Round(2).InexactFloat64(),
		AvgEcoScore: score,
		Verdict:     eco.CartVerdict(score, false),
		Status:      StatusPlaced,
		CreatedAt:   now,
	}
}
