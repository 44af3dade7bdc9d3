package cart

import (
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/product"
)

// Line pins the price and eco score a product had when it entered the cart.
// Snapshots change only when the line is swapped.
type Line struct {
	ProductID        int     `json:"product_id"`
	Quantity         int     `json:"quantity"`
	LockedPrice      float64 `json:"locked_price"`
	EcoScoreSnapshot int     `json:"eco_score_snapshot"`
}

// Cart is one user's cart. Version increases by one on every saved mutation.
type Cart struct {
	UserID       int       `json:"user_id"`
	Items        []Line    `json:"items"`
	CartEcoScore int       `json:"cart_eco_score"`
	Version      int       `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func Empty(userID int) Cart {
	return Cart{UserID: userID, Items: []Line{}}
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

func (c Cart) Entries() []eco.CartEntry {
	out := make([]eco.CartEntry, 0, len(c.Items))
	for _, l := range c.Items {
		out = append(out, eco.CartEntry{Score: l.EcoScoreSnapshot, Quantity: l.Quantity})
	}
	return out
}

func (c Cart) Quantity() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c Cart) clone() Cart {
	items := make([]Line, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func (c Cart) rescored() Cart {
	c.CartEcoScore = eco.CartScore(c.Entries())
	return c
}

func (c Cart) indexOf(productID int) int {
	for i, l := range c.Items {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func lineFor(p product.Product, qty int) Line {
	return Line{ProductID: p.ID, Quantity: qty, LockedPrice: p.Price, EcoScoreSnapshot: p.EcoScore}
}

// The transitions below never modify their input: they return a new cart
// with the score recomputed, or an error and the zero Cart.

// Add puts qty of p into the cart. An existing line only gains quantity; its
// snapshots stay as they were.
func Add(c Cart, p product.Product, qty int) (Cart, error) {
	if qty <= 0 {
		return Cart{}, apperr.New(apperr.InputValidation, "cart.add", "quantity must be greater than 0")
	}
	next := c.clone()
	if i := next.indexOf(p.ID); i >= 0 {
		next.Items[i].Quantity += qty
	} else {
		next.Items = append(next.Items, lineFor(p, qty))
	}
	return next.rescored(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func UpdateQuantity(c Cart, productID, qty int) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return Cart{}, apperr.New(apperr.NotFound, "cart.update", "item not in cart")
	}
	if qty <= 0 {
		return Remove(c, productID)
	}
	next := c.clone()
	next.Items[i].Quantity = qty
	return next.rescored(), nil
}

func Remove(c Cart, productID int) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return Cart{}, apperr.New(apperr.NotFound, "cart.remove", "item not in cart")
	}
	next := c.clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next.rescored(), nil
}

func Clear(c Cart) Cart {
	c.Items = []Line{}
	return c.rescored()
}

// Swap replaces the line of oldProductID with newProduct, keeping the
// quantity and pinning fresh snapshots. A nil product means the lookup found
// nothing. Checks run in order: new product, cart line, old product,
// category. When newProduct already has its own line the quantities merge
// into that line, re-pinned to newProduct's current values.
func Swap(c Cart, oldProductID int, newProduct, oldProduct *product.Product) (Cart, error) {
	const op = "cart.swap"
	if newProduct == nil {
		return Cart{}, apperr.New(apperr.NotFound, op, "new product not found")
	}
	i := c.indexOf(oldProductID)
	if i < 0 {
		return Cart{}, apperr.New(apperr.NotFound, op, "item not in cart")
	}
	if oldProduct == nil {
		return Cart{}, apperr.New(apperr.NotFound, op, "original product not found")
	}
	if newProduct.ID == oldProductID {
		return Cart{}, apperr.New(apperr.InputValidation, op, "cannot swap a product with itself")
	}
	if newProduct.Category != oldProduct.Category {
		return Cart{}, apperr.New(apperr.ConstraintViolation, op, "can only swap with a product from the same category")
	}

	next := c.clone()
	qty := next.Items[i].Quantity
	if j := next.indexOf(newProduct.ID); j >= 0 {
		next.Items[j] = lineFor(*newProduct, next.Items[j].Quantity+qty)
		next.Items = append(next.Items[:i], next.Items[i+1:]...)
	} else {
		next.Items[i] = lineFor(*newProduct, qty)
	}
	return next.rescored(), nil
}
