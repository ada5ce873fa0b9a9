package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	cartadapter "github.com/dwikikusuma/storefront-ops/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/storefront-ops/internal/cart/infra/memory"
	cartrest "github.com/dwikikusuma/storefront-ops/internal/cart/rest"
	catalogapp "github.com/dwikikusuma/storefront-ops/internal/catalog/app"
	catalogmemory "github.com/dwikikusuma/storefront-ops/internal/catalog/infra/memory"
	catalogrest "github.com/dwikikusuma/storefront-ops/internal/catalog/rest"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
)

type harness struct {
	url   string
	dir   string
	cart  *cartapp.Service
	mugID string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewProductRepo())
	mug, err := catalog.CreateProduct(ctx, catalogapp.NewProduct{Name: "Mug", Currency: "IDR", Amount: decimal.NewFromInt(15000)})
	require.NoError(t, err)
	cart := cartapp.NewService(cartmemory.NewCartRepo(), cartadapter.NewCatalogLookup(catalog), nil)

	r := chi.NewRouter()
	catalogrest.NewHandler(catalog).Routes(r)
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware)
		cartrest.NewHandler(cart).Routes(r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return harness{url: srv.URL, dir: t.TempDir(), cart: cart, mugID: mug.ID}
}

func (h harness) run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(config.Config{CartServerURL: h.url, LocalCartDir: h.dir}, logger.Discard())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestAddPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	h.run(t, "add", h.mugID, "--qty", "2")
	h.run(t, "add", h.mugID)

	out := h.run(t, "list")
	assert.Contains(t, out, "Mug")
	assert.Contains(t, out, "45000")
}

func TestSetAndRemove(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", h.mugID)

	out := h.run(t, "set", h.mugID, "5")
	assert.Contains(t, out, "75000")

	out = h.run(t, "remove", h.mugID)
	assert.NotContains(t, out, "Mug")
}

func TestLoginMergesIntoServerCart(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", h.mugID, "--qty", "3")

	out := h.run(t, "login", "--user", "u1")
	assert.NotContains(t, out, "unreachable")
	assert.Contains(t, out, "Mug")

	server, err := h.cart.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, server.Lines, 1)
	assert.Equal(t, 3, server.Lines[0].Quantity)
}

func TestLoginKeepsLocalCartWhenServerDown(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", h.mugID, "--qty", "2")
	h.url = "http://127.0.0.1:1"

	out := h.run(t, "login", "--user", "u1")
	assert.Contains(t, out, "unreachable")
	assert.Contains(t, out, "30000")
}

func TestAddUnknownProductFails(t *testing.T) {
	h := newHarness(t)
	cmd := newRootCmd(config.Config{CartServerURL: h.url, LocalCartDir: h.dir}, logger.Discard())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"add", "00000000-0000-0000-0000-000000000000"})
	assert.Error(t, cmd.Execute())
}
