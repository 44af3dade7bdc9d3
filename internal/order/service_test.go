package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/product"
)

// interleavingCarts runs beforeClear ahead of every ClearAt, standing in for
// a request that reaches the cart between checkout's read and its clear.
type interleavingCarts struct {
	*cart.Service
	beforeClear func(ctx context.Context)
	clears      int
}

func (c *interleavingCarts) ClearAt(ctx context.Context, userID, version int) (cart.Cart, error) {
	c.clears++
	if c.beforeClear != nil {
		c.beforeClear(ctx)
	}
	return c.Service.ClearAt(ctx, userID, version)
}

type failingOrders struct{ *InMemoryRepository }

func (failingOrders) Create(context.Context, Order) (Order, error) {
	return Order{}, errors.New("orders table unavailable")
}

func newCartService(t *testing.T) *cart.Service {
	t.Helper()
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "tee", Category: "mens-fashion", Price: 10, EcoScore: 50},
		{ID: 2, Name: "bottle", Category: "home", Price: 20, EcoScore: 70},
	}), nil, nil)
	return cart.NewService(cart.NewInMemoryRepository([]cart.Cart{{
		UserID:  1,
		Items:   []cart.Line{{ProductID: 1, Quantity: 1, LockedPrice: 10, EcoScoreSnapshot: 50}},
		Version: 1,
	}}), products, nil)
}

func TestCheckout_LineAddedDuringCheckoutIsOrdered(t *testing.T) {
	ctx := context.Background()
	carts := newCartService(t)
	added := false
	racing := &interleavingCarts{Service: carts, beforeClear: func(ctx context.Context) {
		if added {
			return
		}
		added = true
		if _, err := carts.Add(ctx, 1, 2, 5); err != nil {
			t.Fatalf("concurrent add failed: %v", err)
		}
	}}
	svc := NewService(NewInMemoryRepository(), racing, nil)

	ord, err := svc.Checkout(ctx, 1)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if racing.clears != 2 {
		t.Fatalf("expected the stale clear to be retried, got %d clears", racing.clears)
	}
	if len(ord.Items) != 2 || ord.Items[1].ProductID != 2 || ord.Items[1].Quantity != 5 {
		t.Fatalf("expected the added line in the order, got %+v", ord.Items)
	}
	// (50 + 70*5) / 6 = 66.67
	if ord.Quantity != 6 || ord.TotalAmount != 110 || ord.AvgEcoScore != 67 {
		t.Fatalf("unexpected order totals %+v", ord)
	}

	c, _ := carts.Get(ctx, 1)
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart after checkout, got %+v", c.Items)
	}
}

func TestCheckout_GivesUpWithoutLosingLines(t *testing.T) {
	ctx := context.Background()
	carts := newCartService(t)
	racing := &interleavingCarts{Service: carts, beforeClear: func(ctx context.Context) {
		_, _ = carts.Add(ctx, 1, 2, 1)
	}}
	repo := NewInMemoryRepository()
	svc := NewService(repo, racing, nil)

	_, err := svc.Checkout(ctx, 1)
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if racing.clears != maxCheckoutAttempts {
		t.Fatalf("expected %d attempts, got %d", maxCheckoutAttempts, racing.clears)
	}
	c, _ := carts.Get(ctx, 1)
	if len(c.Items) != 2 || c.Items[1].Quantity != maxCheckoutAttempts {
		t.Fatalf("expected every line kept, got %+v", c.Items)
	}
	if orders, _ := repo.ListByUser(ctx, 1); len(orders) != 0 {
		t.Fatalf("expected no order, got %d", len(orders))
	}
}

func TestCheckout_ConcurrentCheckoutsPlaceOneOrder(t *testing.T) {
	ctx := context.Background()
	carts := newCartService(t)
	repo := NewInMemoryRepository()
	svc := NewService(repo, carts, nil)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Checkout(ctx, 1)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !apperr.Is(err, apperr.InputValidation):
			t.Fatalf("expected the losing checkout to see an empty cart, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful checkout, got %d", succeeded)
	}
	if orders, _ := repo.ListByUser(ctx, 1); len(orders) != 1 {
		t.Fatalf("expected one stored order, got %d", len(orders))
	}
}

func TestCheckout_RestoresCartWhenOrderFails(t *testing.T) {
	ctx := context.Background()
	carts := newCartService(t)
	svc := NewService(failingOrders{NewInMemoryRepository()}, carts, nil)

	_, err := svc.Checkout(ctx, 1)
	if !apperr.Is(err, apperr.Internal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	c, _ := carts.Get(ctx, 1)
	if len(c.Items) != 1 || c.Items[0].ProductID != 1 || c.CartEcoScore != 50 {
		t.Fatalf("expected cart restored, got %+v", c)
	}
}
