package order

import (
	"context"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
)

// maxCheckoutAttempts bounds how often checkout re-reads a cart that changed
// under it.
const maxCheckoutAttempts = 3

// Carts is the part of the cart service checkout needs. ClearAt and
// RestoreAt succeed only while the cart is still at the given version.
type Carts interface {
	Get(ctx context.Context, userID int) (cart.Cart, error)
	ClearAt(ctx context.Context, userID, version int) (cart.Cart, error)
	RestoreAt(ctx context.Context, c cart.Cart, version int) (cart.Cart, error)
}

// Service provides business logic for orders.
type Service struct {
	repo  Repository
	carts Carts
	log   *logger.Logger
	now   func() time.Time
}

func NewService(r Repository, carts Carts, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: r, carts: carts, log: log, now: time.Now}
}

// Checkout turns the user's cart into an order and empties the cart. The
// cart is claimed by clearing it at the version that was read, so a line
// added meanwhile forces a re-read instead of being dropped, and two
// checkouts of one cart cannot both succeed.
func (s *Service) Checkout(ctx context.Context, userID int) (Order, error) {
	const op = "order.checkout"
	if userID <= 0 {
		return Order{}, apperr.New(apperr.InputValidation, op, "invalid user")
	}
	for attempt := 1; attempt <= maxCheckoutAttempts; attempt++ {
		c, err := s.carts.Get(ctx, userID)
		if err != nil {
			return Order{}, err
		}
		if c.IsEmpty() {
			return Order{}, apperr.New(apperr.InputValidation, op, "cart is empty")
		}

		cleared, err := s.carts.ClearAt(ctx, userID, c.Version)
		if apperr.Is(err, apperr.Conflict) {
			s.log.Debug("cart changed during checkout, retrying", "user_id", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			return Order{}, err
		}

		created, err := s.repo.Create(ctx, FromCart(c, s.now().UTC()))
		if err != nil {
			if _, rerr := s.carts.RestoreAt(ctx, c, cleared.Version); rerr != nil {
				s.log.Error("could not restore cart after failed checkout", "user_id", userID, "error", rerr)
			}
			return Order{}, apperr.Wrap(apperr.Internal, op, err)
		}
		s.log.Info("order placed", "user_id", userID, "order_id", created.ID, "avg_eco_score", created.AvgEcoScore)
		return created, nil
	}
	return Order{}, apperr.New(apperr.Conflict, op, "cart kept changing during checkout")
}

func (s *Service) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order.list", err)
	}
	return orders, nil
}
