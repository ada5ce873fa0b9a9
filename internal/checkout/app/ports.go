package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/checkout/domain"
)

type CartStore interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartItem struct {
	ProductID string
	Quantity  int
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   decimal.Decimal
}

type OrderWriter interface {
	PlaceOrder(ctx context.Context, userID string, q domain.Quote) (domain.PlacedOrder, error)
}

// Recorder is told about every placed order. May be nil.
type Recorder interface {
	OrderPlaced()
}
