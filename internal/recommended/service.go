package recommended

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
	"github.com/wichananm65/eco-shop-backend/internal/product"
)

const greenerFanOut = 4

// Catalog is the part of the product service the recommender reads.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	Alternatives(ctx context.Context, q product.AlternativeQuery) ([]product.Product, error)
}

type CartReader interface {
	Get(ctx context.Context, userID int) (cart.Cart, error)
}

type Service struct {
	products Catalog
	carts    CartReader
	cache    Cache
	limits   Limits
	log      *logger.Logger
}

// NewService builds the recommender. cache may be nil.
func NewService(products Catalog, carts CartReader, cache Cache, limits Limits, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{products: products, carts: carts, cache: cache, limits: limits.normalized(), log: log}
}

// InvalidateCache bumps the catalog generation. Registered as a product
// change hook.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("alternatives cache invalidation failed", "error", err)
	}
}

// Alternatives ranks greener products for productID. limit <= 0 uses the
// detail default.
func (s *Service) Alternatives(ctx context.Context, productID, limit int) ([]eco.Alternative, error) {
	base, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.alternativesFor(ctx, base, eco.NormalizeLimit(limit, s.limits.Detail))
}

func (s *Service) alternativesFor(ctx context.Context, base product.Product, limit int) ([]eco.Alternative, error) {
	key := ""
	if s.cache != nil {
		k, err := s.cache.Key(ctx, base.ID, limit)
		if err != nil {
			s.log.Warn("alternatives cache unavailable", "error", err)
		} else {
			key = k
			if alts, ok := s.cache.Get(ctx, key); ok {
				return alts, nil
			}
		}
	}

	band := eco.PriceBand(base.Price)
	candidates, err := s.products.Alternatives(ctx, product.AlternativeQuery{
		Category:  base.Category,
		MinPrice:  band.Min,
		MaxPrice:  band.Max,
		ExcludeID: base.ID,
		MinScore:  base.EcoScore,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]eco.Item, 0, len(candidates))
	for _, p := range candidates {
		items = append(items, p.Item())
	}
	// ranking re-applies the filter, whatever the adapter returned
	alts := eco.Rank(base.Item(), items, limit)

	if key != "" {
		if err := s.cache.Set(ctx, key, alts); err != nil {
			s.log.Warn("alternatives cache write failed", "error", err)
		}
	}
	return alts, nil
}

// Greener suggests alternatives for every cart line that has any, in cart
// order. Lines whose product no longer exists are skipped.
func (s *Service) Greener(ctx context.Context, userID int) (GreenerCart, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return GreenerCart{}, err
	}
	if c.IsEmpty() {
		return GreenerCart{Suggestions: []Suggestion{}, Message: "Cart is empty"}, nil
	}

	found := make([]*Suggestion, len(c.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(greenerFanOut)
	for i, line := range c.Items {
		g.Go(func() error {
			p, err := s.products.GetByID(gctx, line.ProductID)
			if err != nil {
				if apperr.Is(err, apperr.NotFound) {
					return nil
				}
				return err
			}
			alts, err := s.alternativesFor(gctx, p, s.limits.Cart)
			if err != nil {
				return err
			}
			if len(alts) == 0 {
				return nil
			}
			found[i] = &Suggestion{
				Current: Current{
					ID:       p.ID,
					Name:     p.Name,
					Price:    p.Price,
					EcoScore: p.EcoScore,
					Quantity: line.Quantity,
				},
				Alternatives: alts,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GreenerCart{}, err
	}

	out := GreenerCart{Suggestions: make([]Suggestion, 0, len(found))}
	for _, sg := range found {
		if sg != nil {
			out.Suggestions = append(out.Suggestions, *sg)
		}
	}
	out.Count = len(out.Suggestions)
	return out, nil
}
