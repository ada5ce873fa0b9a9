package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront-ops/internal/order/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return domain.Order{}, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("order has no items: %w", ErrInvalidInput)
	}
	if req.Shipping.IsNegative() {
		return domain.Order{}, fmt.Errorf("shipping amount cannot be negative, got %s: %w", req.Shipping, ErrInvalidInput)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("item %d: quantity must be positive, got %d: %w", i, item.Quantity, ErrInvalidInput)
		}
		if item.UnitPrice.IsNegative() {
			return domain.Order{}, fmt.Errorf("item %d: unit price cannot be negative, got %s: %w", i, item.UnitPrice, ErrInvalidInput)
		}

		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	order := domain.Order{
		UserID:   req.UserID,
		Status:   domain.StatusPending,
		Currency: req.Currency,
		Shipping: req.Shipping,
		Subtotal: subtotal,
		Total:    subtotal.Add(req.Shipping),
		Items:    items,
	}
	return s.repo.CreateOrderTx(ctx, order)
}

// GetOrder returns the order only to the user who placed it.
func (s *Service) GetOrder(ctx context.Context, userID, id string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.UserID != userID {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}
