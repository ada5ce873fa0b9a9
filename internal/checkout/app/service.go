package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront-ops/internal/checkout/domain"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMixedCurrency = errors.New("cart mixes currencies")
)

type Config struct {
	MaxConcurrent int
	// Shipping is the flat fee added to every order.
	Shipping decimal.Decimal
	Recorder Recorder
	Log      *slog.Logger
}

type Service struct {
	Cart    CartStore
	Catalog CatalogReader
	Orders  OrderWriter

	maxConcurrent int
	shipping      decimal.Decimal
	rec           Recorder
	log           *slog.Logger
}

func NewService(cart CartStore, catalog CatalogReader, orders OrderWriter, cfg Config) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Orders:        orders,
		maxConcurrent: cfg.MaxConcurrent,
		shipping:      cfg.Shipping,
		rec:           cfg.Recorder,
		log:           cfg.Log,
	}
}

// Quote prices the user's cart against the current catalog.
func (s *Service) Quote(ctx context.Context, userID string) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx, it := range items {
		g.Go(func() error {
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: domain.Money{Currency: product.Currency, Amount: product.Amount},
				LineTotal: domain.Money{
					Currency: product.Currency,
					Amount:   product.Amount.Mul(decimal.NewFromInt(int64(it.Quantity))),
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	currency := lines[0].LineTotal.Currency
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.LineTotal.Currency != currency {
			return domain.Quote{}, fmt.Errorf("%s and %s: %w", currency, line.LineTotal.Currency, ErrMixedCurrency)
		}
		subtotal = subtotal.Add(line.LineTotal.Amount)
	}

	return domain.Quote{
		Lines:    lines,
		Subtotal: domain.Money{Currency: currency, Amount: subtotal},
		Shipping: domain.Money{Currency: currency, Amount: s.shipping},
		Total:    domain.Money{Currency: currency, Amount: subtotal.Add(s.shipping)},
	}, nil
}

// PlaceOrder turns a fresh quote into an order and then empties the cart.
// A failed clear is logged only; the order already exists.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (domain.PlacedOrder, error) {
	q, err := s.Quote(ctx, userID)
	if err != nil {
		return domain.PlacedOrder{}, err
	}

	placed, err := s.Orders.PlaceOrder(ctx, userID, q)
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("place order: %w", err)
	}
	if s.rec != nil {
		s.rec.OrderPlaced()
	}

	if err := s.Cart.ClearCart(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Warn("cart not cleared after checkout",
			slog.String("user_id", userID),
			slog.String("order_id", placed.ID),
			slog.Any("err", err),
		)
	}
	return placed, nil
}
