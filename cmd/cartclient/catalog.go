package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	catalogrest "github.com/dwikikusuma/storefront-ops/internal/catalog/rest"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// fetchLine snapshots a product from the public catalog so the local cart
// can show names and prices while offline.
func fetchLine(ctx context.Context, server, productID string) (domain.CartLine, error) {
	u := strings.TrimRight(server, "/") + "/products/" + url.PathEscape(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.CartLine{}, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.CartLine{}, fmt.Errorf("fetch product %s: status %d", productID, resp.StatusCode)
	}

	var p catalogrest.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.CartLine{}, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return domain.CartLine{
		ProductID: p.ID,
		UnitPrice: p.Price,
		Product: domain.ProductSnapshot{
			Name:     p.Name,
			ImageURL: p.ImageURL,
			Currency: p.Currency,
		},
	}, nil
}
