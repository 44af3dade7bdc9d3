// Package recommended suggests greener products: ranked alternatives for a
// single product and swap suggestions for every line of a cart.
package recommended

import "github.com/wichananm65/eco-shop-backend/internal/eco"

// Current describes the cart line a suggestion is for, using the live
// product values.
type Current struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	EcoScore int     `json:"eco_score"`
	Quantity int     `json:"quantity"`
}

type Suggestion struct {
	Current      Current           `json:"current"`
	Alternatives []eco.Alternative `json:"alternatives"`
}

type GreenerCart struct {
	Count       int          `json:"count"`
	Suggestions []Suggestion `json:"suggestions"`
	Message     string       `json:"message,omitempty"`
}

// Limits are the default list sizes per context. Zero values fall back to
// the eco package defaults.
type Limits struct {
	Cart   int
	Detail int
}

func (l Limits) normalized() Limits {
	if l.Cart <= 0 {
		l.Cart = eco.DefaultCartAlternatives
	}
	if l.Detail <= 0 {
		l.Detail = eco.DefaultDetailAlternatives
	}
	return l
}
