package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	cartrest "github.com/dwikikusuma/storefront-ops/internal/cart/rest"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
)

// HTTPSyncer talks to POST /cart/sync.
type HTTPSyncer struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPSyncer(baseURL string) *HTTPSyncer {
	return &HTTPSyncer{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPSyncer) Sync(ctx context.Context, actor identity.Actor, items []SyncItem) ([]domain.CartLine, error) {
	body := make([]cartrest.SyncItemJSON, 0, len(items))
	for _, it := range items {
		body = append(body, cartrest.SyncItemJSON{Product: it.ProductID, Quantity: it.Quantity})
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cart/sync", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")
	identity.SetHeaders(req, actor)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cart sync returned %d", resp.StatusCode)
	}

	var out []cartrest.LineJSON
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cartrest.ToLines(out), nil
}
