package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront-ops/internal/checkout/app"
)

type CartServiceStore struct {
	svc *cartapp.Service
}

func NewCartServiceStore(svc *cartapp.Service) *CartServiceStore {
	return &CartServiceStore{svc: svc}
}

func (r *CartServiceStore) GetCart(ctx context.Context, userID string) ([]checkoutapp.CartItem, error) {
	cart, err := r.svc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart.Lines))
	for _, it := range cart.Lines {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return items, nil
}

func (r *CartServiceStore) ClearCart(ctx context.Context, userID string) error {
	return r.svc.ClearCart(ctx, userID)
}
