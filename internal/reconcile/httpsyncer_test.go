package reconcile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/dwikikusuma/storefront-ops/internal/cart/infra/memory"
	cartrest "github.com/dwikikusuma/storefront-ops/internal/cart/rest"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/localcart"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog map[string]cartapp.Product

func (c catalog) GetProduct(ctx context.Context, id string) (cartapp.Product, error) {
	if p, ok := c[id]; ok {
		return p, nil
	}
	return cartapp.Product{}, cartapp.ErrNotFound
}

func TestHTTPSyncerAgainstCartEndpoint(t *testing.T) {
	svc := cartapp.NewService(memory.NewCartRepo(), catalog{
		"A": {ID: "A", Name: "Mug", Currency: "IDR", Price: decimal.NewFromInt(10)},
	}, nil)
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	cartrest.NewHandler(svc).Routes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	store, err := localcart.Open(nil, nil)
	require.NoError(t, err)
	store.Add(domain.CartLine{ProductID: "A", UnitPrice: decimal.NewFromInt(10)}, 2)

	rec := New(store, NewHTTPSyncer(srv.URL+"/"), nil)
	require.True(t, rec.LoggedIn(context.Background(), alice))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Mug", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, store.Total().Equal(decimal.NewFromInt(20)))

	server, err := svc.GetCart(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, server.Count())
}

func TestHTTPSyncerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSyncer(srv.URL).Sync(context.Background(), alice, []SyncItem{{ProductID: "A", Quantity: 1}})
	require.Error(t, err)
}
