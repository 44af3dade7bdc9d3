package eco

// CartEntry is one cart line as the scorer sees it: the pinned snapshot and
// its quantity.
type CartEntry struct {
	Score    int
	Quantity int
}

// CartScore is the quantity-weighted mean of the snapshots, rounded half up.
// An empty cart scores 0. Entries with a non-positive quantity are ignored.
func CartScore(entries []CartEntry) int {
	sum, qty := 0, 0
	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		sum += e.Score * e.Quantity
		qty += e.Quantity
	}
	if qty == 0 {
		return 0
	}
	// floor(sum/qty + 1/2) in integers; sum is never negative
	return (2*sum + qty) / (2 * qty)
}

// CartVerdict is the short human summary shown next to a cart score.
func CartVerdict(score int, empty bool) string {
	switch {
	case empty:
		return "Your cart is empty."
	case score >= 75:
		return "Your cart is very eco-friendly!"
	case score >= 50:
		return "Your cart is moderately eco-friendly. Want to improve it?"
	default:
		return "Your cart could be greener. Try the suggested swaps."
	}
}
