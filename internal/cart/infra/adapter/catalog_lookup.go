package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront-ops/internal/catalog/app"
)

type CatalogLookup struct {
	svc *catalogapp.Service
}

func NewCatalogLookup(svc *catalogapp.Service) *CatalogLookup {
	return &CatalogLookup{svc: svc}
}

func (l *CatalogLookup) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := l.svc.GetProduct(ctx, productID)
	switch {
	case errors.Is(err, catalogapp.ErrNotFound):
		return cartapp.Product{}, cartapp.ErrNotFound
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return cartapp.Product{}, cartapp.ErrInvalidInput
	case err != nil:
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Currency: p.Price.Currency,
		Price:    p.Price.Amount,
	}, nil
}
