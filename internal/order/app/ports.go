package app

import (
	"context"

	"github.com/dwikikusuma/storefront-ops/internal/order/domain"
)

type OrderRepo interface {
	// CreateOrderTx writes the order and all of its items atomically.
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
}
