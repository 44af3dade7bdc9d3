package product

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Product, int, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) error
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(ctx context.Context, products []Product) ([]Product, error)
	// QueryAlternatives returns the products matching q ordered by eco score
	// descending then id ascending, at most q.Limit of them.
	QueryAlternatives(ctx context.Context, q AlternativeQuery) ([]Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(_ context.Context, q ListQuery) ([]Product, int, error) {
	q = q.normalized()
	r.mu.RLock()
	matched := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if listMatches(q, p) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, q.Sort)
	total := len(matched)
	start := q.offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	out := make([]Product, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func listMatches(q ListQuery, p Product) bool {
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Label != "" && p.AILabel != q.Label {
		return false
	}
	if q.MinScore != nil && p.EcoScore < *q.MinScore {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

func sortProducts(ps []Product, order string) {
	less := func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID > ps[j].ID
	}
	switch order {
	case SortEcoDesc:
		less = func(i, j int) bool {
			if ps[i].EcoScore != ps[j].EcoScore {
				return ps[i].EcoScore > ps[j].EcoScore
			}
			return ps[i].ID < ps[j].ID
		}
	case SortEcoAsc:
		less = func(i, j int) bool {
			if ps[i].EcoScore != ps[j].EcoScore {
				return ps[i].EcoScore < ps[j].EcoScore
			}
			return ps[i].ID < ps[j].ID
		}
	case SortPriceAsc:
		less = func(i, j int) bool {
			if ps[i].Price != ps[j].Price {
				return ps[i].Price < ps[j].Price
			}
			return ps[i].ID < ps[j].ID
		}
	case SortPriceDesc:
		less = func(i, j int) bool {
			if ps[i].Price != ps[j].Price {
				return ps[i].Price > ps[j].Price
			}
			return ps[i].ID < ps[j].ID
		}
	}
	sort.SliceStable(ps, less)
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			p.CreatedAt = r.storage[i].CreatedAt
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(_ context.Context, products []Product) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]Product, 0, len(products))
	maxID := 0
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if maxID >= r.nextID {
		r.nextID = maxID + 1
	}
	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) QueryAlternatives(_ context.Context, q AlternativeQuery) ([]Product, error) {
	r.mu.RLock()
	out := make([]Product, 0)
	for _, p := range r.storage {
		if q.matches(p) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sortProducts(out, SortEcoDesc)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
