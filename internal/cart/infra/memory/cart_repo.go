package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/cart/app"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/google/uuid"
)

// CartRepo keeps carts in process memory. It backs the dev server when no
// database is configured.
type CartRepo struct {
	mu     sync.Mutex
	byUser map[string]*domain.Cart
	byID   map[string]*domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{
		byUser: make(map[string]*domain.Cart),
		byID:   make(map[string]*domain.Cart),
	}
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	if !ok {
		return domain.Cart{}, app.ErrNotFound
	}
	return copyCart(c), nil
}

func (r *CartRepo) GetOrCreate(ctx context.Context, userID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	if !ok {
		now := time.Now().UTC()
		c = &domain.Cart{ID: uuid.NewString(), UserID: userID, Status: domain.StatusActive, CreatedAt: now, UpdatedAt: now}
		r.byUser[userID] = c
		r.byID[c.ID] = c
	}
	return copyCart(c), nil
}

func (r *CartRepo) AddLine(ctx context.Context, cartID string, line domain.CartLine) error {
	return r.mutate(cartID, func(c *domain.Cart) error {
		c.Lines = domain.AddLine(c.Lines, line, line.Quantity)
		return nil
	})
}

func (r *CartRepo) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	return r.mutate(cartID, func(c *domain.Cart) error {
		if _, ok := domain.Find(c.Lines, productID); !ok {
			return app.ErrNotFound
		}
		c.Lines = domain.SetQuantity(c.Lines, productID, quantity)
		return nil
	})
}

func (r *CartRepo) RemoveLine(ctx context.Context, cartID, productID string) error {
	return r.mutate(cartID, func(c *domain.Cart) error {
		c.Lines = domain.RemoveLine(c.Lines, productID)
		return nil
	})
}

func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	return r.mutate(cartID, func(c *domain.Cart) error {
		c.Lines = nil
		return nil
	})
}

func (r *CartRepo) UpsertQuantities(ctx context.Context, cartID string, lines []domain.CartLine) error {
	return r.mutate(cartID, func(c *domain.Cart) error {
		for _, l := range lines {
			if _, ok := domain.Find(c.Lines, l.ProductID); ok {
				c.Lines = domain.SetQuantity(c.Lines, l.ProductID, l.Quantity)
				continue
			}
			if l.Quantity > 0 {
				c.Lines = append(domain.Clone(c.Lines), l)
			}
		}
		return nil
	})
}

func (r *CartRepo) mutate(cartID string, fn func(c *domain.Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return app.ErrNotFound
	}
	if err := fn(c); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func copyCart(c *domain.Cart) domain.Cart {
	out := *c
	out.Lines = domain.Clone(c.Lines)
	return out
}
