package main

import (
	"context"
	"fmt"
	"log/slog"

	cartapp "github.com/dwikikusuma/storefront-ops/internal/cart/app"
	cartmemory "github.com/dwikikusuma/storefront-ops/internal/cart/infra/memory"
	cartpg "github.com/dwikikusuma/storefront-ops/internal/cart/infra/postgres"
	catalogapp "github.com/dwikikusuma/storefront-ops/internal/catalog/app"
	catalogmemory "github.com/dwikikusuma/storefront-ops/internal/catalog/infra/memory"
	catalogpg "github.com/dwikikusuma/storefront-ops/internal/catalog/infra/postgres"
	orderapp "github.com/dwikikusuma/storefront-ops/internal/order/app"
	ordermemory "github.com/dwikikusuma/storefront-ops/internal/order/infra/memory"
	orderpg "github.com/dwikikusuma/storefront-ops/internal/order/infra/postgres"
	workflowapp "github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	workflowmemory "github.com/dwikikusuma/storefront-ops/internal/workflow/infra/memory"
	workflowpg "github.com/dwikikusuma/storefront-ops/internal/workflow/infra/postgres"
	"github.com/dwikikusuma/storefront-ops/migrations"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/postgres"
)

type providerStore interface {
	workflowapp.ProviderDirectory
	Upsert(ctx context.Context, p domain.Provider) error
}

type stores struct {
	products     catalogapp.ProductRepo
	carts        cartapp.CartRepo
	orders       orderapp.OrderRepo
	requirements workflowapp.RequirementRepo
	invoices     workflowapp.InvoiceRepo
	providers    providerStore

	ping  func(ctx context.Context) error
	close func()
}

func memoryStores() stores {
	return stores{
		products:     catalogmemory.NewProductRepo(),
		carts:        cartmemory.NewCartRepo(),
		orders:       ordermemory.NewOrderRepo(),
		requirements: workflowmemory.NewRequirementRepo(),
		invoices:     workflowmemory.NewInvoiceRepo(),
		providers:    workflowmemory.NewProviderDirectory(),
		ping:         func(context.Context) error { return nil },
		close:        func() {},
	}
}

// openStores uses postgres when DATABASE_URL is set and process memory
// otherwise.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return memoryStores(), nil
	}

	pool, err := postgres.Open(ctx, postgres.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		return stores{}, err
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("migrate: %w", err)
	}

	return stores{
		products:     catalogpg.NewProductRepo(pool),
		carts:        cartpg.NewCartRepo(pool),
		orders:       orderpg.NewOrderRepo(pool),
		requirements: workflowpg.NewRequirementRepo(pool),
		invoices:     workflowpg.NewInvoiceRepo(pool),
		providers:    workflowpg.NewProviderDirectory(pool),
		ping:         pool.Ping,
		close:        pool.Close,
	}, nil
}

func seedProviders(ctx context.Context, dir providerStore, seeds []config.ProviderSeed) error {
	for _, s := range seeds {
		p := domain.Provider{ID: s.ID, UserID: s.UserID, ManagerID: s.ManagerID}
		if err := dir.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed provider %s: %w", s.ID, err)
		}
	}
	return nil
}
