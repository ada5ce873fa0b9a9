package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
	"github.com/dwikikusuma/storefront-ops/pkg/metrics"
)

func newTestServer(t *testing.T, st stores) *httptest.Server {
	t.Helper()
	cfg := config.Config{ShippingFlat: "0", CheckoutMaxConcurrent: 4, Currency: "IDR"}
	require.NoError(t, seedProviders(context.Background(), st.providers, []config.ProviderSeed{
		{ID: "p1", UserID: "user-p1", ManagerID: "mgr-1"},
	}))

	h, err := newRouter(deps{cfg: cfg, log: logger.Discard(), stores: st, metrics: metrics.NewRegistry()})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, srv *httptest.Server, actor *identity.Actor, method, path, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if actor != nil {
		identity.SetHeaders(req, *actor)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestHealthEndpointsAndMetrics(t *testing.T) {
	srv := newTestServer(t, memoryStores())

	code, _ := send(t, srv, nil, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = send(t, srv, nil, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, code)

	mgr := identity.Actor{ID: "mgr-1", Role: identity.RoleManager}
	code, _ = send(t, srv, &mgr, http.MethodPost, "/requirements", `{"provider_id":"p1","title":"boxes","quantity":1}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := send(t, srv, nil, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `storefront_workflow_transitions_total{action="create",kind="requirement",outcome="applied"} 1`)
}

func TestProductCurrencyDefaultsFromConfig(t *testing.T) {
	srv := newTestServer(t, memoryStores())
	admin := identity.Actor{ID: "admin-1", Role: identity.RoleAdmin}

	code, body := send(t, srv, &admin, http.MethodPost, "/products", `{"name":"Mug","price":"12.50"}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Contains(t, body, `"currency":"IDR"`)
}

func TestReadyzReportsDatabaseDown(t *testing.T) {
	st := memoryStores()
	st.ping = func(context.Context) error { return errors.New("connection refused") }
	srv := newTestServer(t, st)

	code, body := send(t, srv, nil, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "UNAVAILABLE")
}

func TestProtectedRoutesNeedActor(t *testing.T) {
	srv := newTestServer(t, memoryStores())

	for _, path := range []string{"/cart", "/checkout/quote", "/requirements/x"} {
		code, _ := send(t, srv, nil, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}

	code, body := send(t, srv, nil, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, code, "catalog reads are public")
	assert.NotEmpty(t, body)
}

func TestBadShippingConfig(t *testing.T) {
	_, err := newRouter(deps{
		cfg:     config.Config{ShippingFlat: "free"},
		log:     logger.Discard(),
		stores:  memoryStores(),
		metrics: metrics.NewRegistry(),
	})
	require.Error(t, err)
}
