package category

import (
	"context"

	"github.com/wichananm65/eco-shop-backend/internal/product"
)

// Repository provides per-category aggregates over the catalog.
type Repository interface {
	List(ctx context.Context, limit int) ([]Summary, error)
}

// CatalogRepository aggregates in process by paging through a product
// repository. Used when running without a database.
type CatalogRepository struct {
	products product.Repository
}

func NewCatalogRepository(products product.Repository) *CatalogRepository {
	return &CatalogRepository{products: products}
}

func (r *CatalogRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	all := make([]product.Product, 0)
	for page := 1; ; page++ {
		ps, total, err := r.products.List(ctx, product.ListQuery{Page: page, Limit: product.MaxPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, ps...)
		if len(ps) == 0 || len(all) >= total {
			break
		}
	}
	out := summarize(all)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
