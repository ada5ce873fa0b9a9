package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront-ops/internal/checkout/domain"
)

type fakeCart struct {
	mu       sync.Mutex
	items    []CartItem
	cleared  bool
	clearErr error
}

func (f *fakeCart) GetCart(context.Context, string) ([]CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CartItem(nil), f.items...), nil
}

func (f *fakeCart) ClearCart(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items, f.cleared = nil, true
	return nil
}

type fakeCatalog map[string]Product

func (c fakeCatalog) GetProduct(_ context.Context, id string) (Product, error) {
	p, ok := c[id]
	if !ok {
		return Product{}, errors.New("not found")
	}
	return p, nil
}

type fakeOrders struct {
	quotes []domain.Quote
	err    error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, _ string, q domain.Quote) (domain.PlacedOrder, error) {
	if f.err != nil {
		return domain.PlacedOrder{}, f.err
	}
	f.quotes = append(f.quotes, q)
	return domain.PlacedOrder{ID: "o1", Status: "PENDING", Total: q.Total, CreatedAt: time.Now()}, nil
}

type countRecorder struct{ n int }

func (c *countRecorder) OrderPlaced() { c.n++ }

var catalog = fakeCatalog{
	"A": {ID: "A", Name: "Mug", Currency: "USD", Amount: decimal.RequireFromString("9.50")},
	"B": {ID: "B", Name: "Tee", Currency: "USD", Amount: decimal.RequireFromString("20")},
	"C": {ID: "C", Name: "Kopi", Currency: "IDR", Amount: decimal.NewFromInt(25000)},
}

func TestQuoteRepricesAndAddsShipping(t *testing.T) {
	cart := &fakeCart{items: []CartItem{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 1}}}
	svc := NewService(cart, catalog, &fakeOrders{}, Config{MaxConcurrent: 2, Shipping: decimal.NewFromInt(5)})

	q, err := svc.Quote(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "A", q.Lines[0].ProductID, "cart order kept")
	assert.True(t, q.Subtotal.Amount.Equal(decimal.NewFromInt(39)))
	assert.True(t, q.Total.Amount.Equal(decimal.NewFromInt(44)))
	assert.Equal(t, "USD", q.Total.Currency)
}

func TestQuoteErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(&fakeCart{}, catalog, &fakeOrders{}, Config{}).Quote(ctx, "u1")
	assert.ErrorIs(t, err, ErrEmptyCart)

	mixed := &fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}, {ProductID: "C", Quantity: 1}}}
	_, err = NewService(mixed, catalog, &fakeOrders{}, Config{}).Quote(ctx, "u1")
	assert.ErrorIs(t, err, ErrMixedCurrency)

	missing := &fakeCart{items: []CartItem{{ProductID: "Z", Quantity: 1}}}
	_, err = NewService(missing, catalog, &fakeOrders{}, Config{}).Quote(ctx, "u1")
	assert.Error(t, err)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	cart := &fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}}}
	orders := &fakeOrders{}
	rec := &countRecorder{}
	svc := NewService(cart, catalog, orders, Config{Recorder: rec})

	placed, err := svc.PlaceOrder(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "o1", placed.ID)
	assert.True(t, cart.cleared)
	assert.Equal(t, 1, rec.n)
	require.Len(t, orders.quotes, 1)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	cart := &fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}}}
	svc := NewService(cart, catalog, &fakeOrders{err: errors.New("db down")}, Config{})

	_, err := svc.PlaceOrder(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, cart.cleared)
	assert.Len(t, cart.items, 1)
}

func TestPlaceOrderSurvivesClearFailure(t *testing.T) {
	cart := &fakeCart{items: []CartItem{{ProductID: "A", Quantity: 1}}, clearErr: errors.New("timeout")}
	svc := NewService(cart, catalog, &fakeOrders{}, Config{})

	placed, err := svc.PlaceOrder(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "o1", placed.ID)
}
