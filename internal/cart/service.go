package cart

import (
	"context"
	"errors"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
	"github.com/wichananm65/eco-shop-backend/internal/product"
)

const maxSaveAttempts = 3

// ProductLookup is the part of the catalog the cart needs.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
}

// Service orchestrates cart operations. Every mutation is a read, a pure
// transition and a versioned save, retried on concurrent modification.
type Service struct {
	repo     Repository
	products ProductLookup
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, products ProductLookup, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, products: products, log: log, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID int) (Cart, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Cart{}, apperr.Wrap(apperr.Internal, "cart.get", err)
	}
	return c, nil
}

func (s *Service) Add(ctx context.Context, userID, productID, qty int) (Cart, error) {
	if qty <= 0 {
		return Cart{}, apperr.New(apperr.InputValidation, "cart.add", "quantity must be greater than 0")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, userID, "cart.add", func(c Cart) (Cart, error) {
		return Add(c, p, qty)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, qty int) (Cart, error) {
	return s.mutate(ctx, userID, "cart.update", func(c Cart) (Cart, error) {
		return UpdateQuantity(c, productID, qty)
	})
}

func (s *Service) Remove(ctx context.Context, userID, productID int) (Cart, error) {
	return s.mutate(ctx, userID, "cart.remove", func(c Cart) (Cart, error) {
		return Remove(c, productID)
	})
}

func (s *Service) Clear(ctx context.Context, userID int) (Cart, error) {
	return s.mutate(ctx, userID, "cart.clear", func(c Cart) (Cart, error) {
		return Clear(c), nil
	})
}

// ClearAt empties the cart only if it is still at version. It makes one
// attempt; a concurrent change yields apperr.Conflict.
func (s *Service) ClearAt(ctx context.Context, userID, version int) (Cart, error) {
	return s.saveAt(ctx, "cart.clear", Clear(Empty(userID)), version)
}

// RestoreAt puts c's lines back over a cart still at version. Used to undo a
// clear whose follow-up step failed.
func (s *Service) RestoreAt(ctx context.Context, c Cart, version int) (Cart, error) {
	return s.saveAt(ctx, "cart.restore", c.clone().rescored(), version)
}

func (s *Service) saveAt(ctx context.Context, op string, next Cart, version int) (Cart, error) {
	next.UpdatedAt = s.now().UTC()
	saved, err := s.repo.Save(ctx, next, version)
	if errors.Is(err, ErrVersionConflict) {
		return Cart{}, apperr.Wrap(apperr.Conflict, op, err)
	}
	if err != nil {
		return Cart{}, apperr.Wrap(apperr.Internal, op, err)
	}
	return saved, nil
}

// Swap replaces oldProductID with newProductID. Nothing is stored unless the
// whole swap succeeds.
func (s *Service) Swap(ctx context.Context, userID, oldProductID, newProductID int) (Cart, error) {
	if oldProductID <= 0 || newProductID <= 0 {
		return Cart{}, apperr.New(apperr.InputValidation, "cart.swap", "old_product_id and new_product_id are required")
	}
	newP, err := s.lookup(ctx, newProductID)
	if err != nil {
		return Cart{}, err
	}
	oldP, err := s.lookup(ctx, oldProductID)
	if err != nil {
		return Cart{}, err
	}
	saved, err := s.mutate(ctx, userID, "cart.swap", func(c Cart) (Cart, error) {
		return Swap(c, oldProductID, newP, oldP)
	})
	if err == nil {
		s.log.Info("cart swap", "user_id", userID, "from", oldProductID, "to", newProductID, "cart_eco_score", saved.CartEcoScore)
	}
	return saved, err
}

// lookup returns nil for a missing product so Swap can order its checks.
func (s *Service) lookup(ctx context.Context, id int) (*product.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) || errors.Is(err, product.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) mutate(ctx context.Context, userID int, op string, fn func(Cart) (Cart, error)) (Cart, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		current, err := s.repo.Get(ctx, userID)
		if err != nil {
			return Cart{}, apperr.Wrap(apperr.Internal, op, err)
		}
		next, err := fn(current)
		if err != nil {
			return Cart{}, err
		}
		next.UserID = userID
		next.UpdatedAt = s.now().UTC()

		saved, err := s.repo.Save(ctx, next, current.Version)
		if errors.Is(err, ErrVersionConflict) {
			s.log.Debug("cart version conflict, retrying", "user_id", userID, "op", op, "attempt", attempt)
			continue
		}
		if err != nil {
			return Cart{}, apperr.Wrap(apperr.Internal, op, err)
		}
		return saved, nil
	}
	return Cart{}, apperr.Wrap(apperr.Conflict, op, ErrVersionConflict)
}
