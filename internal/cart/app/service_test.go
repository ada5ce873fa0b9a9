package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dwikikusuma/storefront-ops/internal/cart/app"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/dwikikusuma/storefront-ops/internal/cart/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type catalog map[string]app.Product

func (c catalog) GetProduct(ctx context.Context, id string) (app.Product, error) {
	p, ok := c[id]
	if !ok {
		return app.Product{}, app.ErrNotFound
	}
	return p, nil
}

type countingRecorder struct {
	mu  sync.Mutex
	got map[string]int
}

func (r *countingRecorder) CartSynced(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.got == nil {
		r.got = map[string]int{}
	}
	r.got[outcome]++
}

func testCatalog() catalog {
	return catalog{
		"A": {ID: "A", Name: "Mug", Currency: "IDR", Price: decimal.NewFromInt(10)},
		"B": {ID: "B", Name: "Plate", Currency: "IDR", Price: decimal.NewFromInt(4)},
	}
}

func TestAddItemAccumulatesAndSnapshotsPrice(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)

	_, err := svc.AddItem(ctx, "u1", "A", 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u1", "A", 0)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, "Mug", cart.Lines[0].Product.Name)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(30)))
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.AddItem(context.Background(), "u1", "nope", 1)
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestSetItemQuantity(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.AddItem(ctx, "u1", "A", 2)
	require.NoError(t, err)

	cart, err := svc.SetItemQuantity(ctx, "u1", "A", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	_, err = svc.SetItemQuantity(ctx, "u1", "B", 5)
	assert.ErrorIs(t, err, app.ErrNotFound)

	cart, err = svc.SetItemQuantity(ctx, "u1", "A", -3)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestSyncReplacesServerQuantity(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.AddItem(ctx, "u1", "A", 5)
	require.NoError(t, err)

	cart, err := svc.Sync(ctx, "u1", []app.SyncItem{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 1}})
	require.NoError(t, err)

	a, _ := domain.Find(cart.Lines, "A")
	b, _ := domain.Find(cart.Lines, "B")
	assert.Equal(t, 2, a.Quantity, "last writer wins, not summed")
	assert.Equal(t, 1, b.Quantity)
	assert.Equal(t, "Plate", b.Product.Name)
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	items := []app.SyncItem{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 3}}

	first, err := svc.Sync(ctx, "u1", items)
	require.NoError(t, err)
	second, err := svc.Sync(ctx, "u1", items)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
}

func TestSyncScenarioEmptyServerCart(t *testing.T) {
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)

	cart, err := svc.Sync(context.Background(), "u1", []app.SyncItem{{ProductID: "A", Quantity: 2}})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Count())
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(20)))
}

func TestSyncDuplicatesAndRemovals(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.AddItem(ctx, "u1", "B", 1)
	require.NoError(t, err)

	cart, err := svc.Sync(ctx, "u1", []app.SyncItem{
		{ProductID: "A", Quantity: 1},
		{ProductID: "A", Quantity: 4},
		{ProductID: "B", Quantity: 0},
	})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "A", cart.Lines[0].ProductID)
	assert.Equal(t, 4, cart.Lines[0].Quantity)
}

func TestSyncUnknownProductLeavesCart(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), rec)
	_, err := svc.AddItem(ctx, "u1", "A", 1)
	require.NoError(t, err)

	_, err = svc.Sync(ctx, "u1", []app.SyncItem{{ProductID: "A", Quantity: 9}, {ProductID: "ghost", Quantity: 1}})
	assert.ErrorIs(t, err, app.ErrNotFound)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, 1, rec.got["failed"])
}

func TestSyncRejectsBlankProduct(t *testing.T) {
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.Sync(context.Background(), "u1", []app.SyncItem{{ProductID: " ", Quantity: 1}})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)
	_, err := svc.AddItem(ctx, "u1", "A", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestConcurrentAddItemIncrement(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartRepo(), testCatalog(), nil)

	const N = 100
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := svc.AddItem(gctx, "u1", "A", 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, N, cart.Lines[0].Quantity)
}
