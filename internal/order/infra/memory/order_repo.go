package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront-ops/internal/order/app"
	"github.com/dwikikusuma/storefront-ops/internal/order/domain"
)

type OrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	// FailNext makes the next CreateOrderTx fail; used by checkout tests.
	FailNext error
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[string]domain.Order)}
}

func (r *OrderRepo) CreateOrderTx(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailNext; err != nil {
		r.FailNext = nil
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt, order.UpdatedAt = now, now
	items := make([]domain.OrderItem, len(order.Items))
	for i, it := range order.Items {
		it.ID = uuid.NewString()
		it.OrderID = order.ID
		items[i] = it
	}
	order.Items = items
	r.orders[order.ID] = order
	return order, nil
}

func (r *OrderRepo) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o, nil
}
