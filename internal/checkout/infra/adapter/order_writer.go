package adapter

import (
	"context"

	checkoutdomain "github.com/dwikikusuma/storefront-ops/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/storefront-ops/internal/order/app"
	orderdomain "github.com/dwikikusuma/storefront-ops/internal/order/domain"
)

type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) PlaceOrder(ctx context.Context, userID string, q checkoutdomain.Quote) (checkoutdomain.PlacedOrder, error) {
	items := make([]orderdomain.OrderItemRequest, 0, len(q.Lines))
	for _, ln := range q.Lines {
		items = append(items, orderdomain.OrderItemRequest{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			UnitPrice: ln.UnitPrice.Amount,
			Quantity:  ln.Quantity,
		})
	}

	o, err := w.svc.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		UserID:   userID,
		Currency: q.Total.Currency,
		Shipping: q.Shipping.Amount,
		Items:    items,
	})
	if err != nil {
		return checkoutdomain.PlacedOrder{}, err
	}

	return checkoutdomain.PlacedOrder{
		ID:        o.ID,
		Status:    o.Status,
		Total:     checkoutdomain.Money{Currency: o.Currency, Amount: o.Total},
		CreatedAt: o.CreatedAt,
	}, nil
}
