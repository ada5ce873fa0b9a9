package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	cartadapter "github.com/dwikikusuma/storefront-ops/internal/cart/infra/adapter"
	cartrest "github.com/dwikikusuma/storefront-ops/internal/cart/rest"
	catalogapp "github.com/dwikikusuma/storefront-ops/internal/catalog/app"
	catalogrest "github.com/dwikikusuma/storefront-ops/internal/catalog/rest"
	checkoutapp "github.com/dwikikusuma/storefront-ops/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront-ops/internal/checkout/infra/adapter"
	checkoutrest "github.com/dwikikusuma/storefront-ops/internal/checkout/rest"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	orderapp "github.com/dwikikusuma/storefront-ops/internal/order/app"
	workflowapp "github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	workflowrest "github.com/dwikikusuma/storefront-ops/internal/workflow/rest"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
	"github.com/dwikikusuma/storefront-ops/pkg/metrics"
)

type deps struct {
	cfg     config.Config
	log     *slog.Logger
	stores  stores
	metrics *metrics.Registry
	// events may be nil.
	events workflowapp.EventPublisher
}

func newRouter(d deps) (http.Handler, error) {
	shipping, err := decimal.NewFromString(d.cfg.ShippingFlat)
	if err != nil {
		return nil, fmt.Errorf("SHIPPING_FLAT %q: %w", d.cfg.ShippingFlat, err)
	}

	catalogSvc := catalogapp.NewService(d.stores.products).WithDefaultCurrency(d.cfg.Currency)
	cartSvc := cartapp.NewService(d.stores.carts, cartadapter.NewCatalogLookup(catalogSvc), d.metrics)
	orderSvc := orderapp.NewService(d.stores.orders)
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceStore(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		checkoutadapter.NewOrderServiceWriter(orderSvc),
		checkoutapp.Config{
			MaxConcurrent: d.cfg.CheckoutMaxConcurrent,
			Shipping:      shipping,
			Recorder:      d.metrics,
			Log:           d.log.With("component", "checkout"),
		},
	)
	workflowSvc := workflowapp.NewService(workflowapp.Deps{
		Requirements: d.stores.requirements,
		Invoices:     d.stores.invoices,
		Providers:    d.stores.providers,
		Events:       d.events,
		Recorder:     d.metrics,
		Log:          d.log.With("component", "workflow"),
	})

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(d.stores.ping))
	r.Handle("/metrics", d.metrics.Handler())

	catalogrest.NewHandler(catalogSvc).Routes(r)

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware)
		cartrest.NewHandler(cartSvc).Routes(r)
		checkoutrest.NewHandler(checkoutSvc).Routes(r)
		workflowrest.NewHandler(workflowSvc).Routes(r)
	})
	return r, nil
}

func readyz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
