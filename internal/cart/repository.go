package cart

import (
	"context"
	"errors"
	"sync"
)

var ErrVersionConflict = errors.New("cart was modified concurrently")

type Repository interface {
	// Get returns the user's cart, or an empty cart at version 0.
	Get(ctx context.Context, userID int) (Cart, error)
	// Save stores c if the stored version still equals expectedVersion and
	// returns it at expectedVersion+1. Otherwise it returns ErrVersionConflict.
	Save(ctx context.Context, c Cart, expectedVersion int) (Cart, error)
}

type InMemoryRepository struct {
	mu    sync.Mutex
	carts map[int]Cart
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	r := &InMemoryRepository{carts: make(map[int]Cart, len(seed))}
	for _, c := range seed {
		r.carts[c.UserID] = c.clone().rescored()
	}
	return r
}

func (r *InMemoryRepository) Get(_ context.Context, userID int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return Empty(userID), nil
	}
	return c.clone(), nil
}

func (r *InMemoryRepository) Save(_ context.Context, c Cart, expectedVersion int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[c.UserID].Version != expectedVersion {
		return Cart{}, ErrVersionConflict
	}
	c = c.clone()
	c.Version = expectedVersion + 1
	r.carts[c.UserID] = c
	return c.clone(), nil
}
