package app

import (
	"context"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/shopspring/decimal"
)

type CartRepo interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (domain.Cart, error)
	// AddLine inserts the line or increments the existing quantity.
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	SetQuantity(ctx context.Context, cartID string, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID string, productID string) error
	Clear(ctx context.Context, cartID string) error
	// UpsertQuantities writes every line in one transaction. Existing lines get
	// their quantity replaced and keep their price snapshot.
	UpsertQuantities(ctx context.Context, cartID string, lines []domain.CartLine) error
}

type ProductLookup interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	ImageURL string
	Currency string
	Price    decimal.Decimal
}

// Recorder receives sync outcomes. May be nil.
type Recorder interface {
	CartSynced(outcome string)
}
