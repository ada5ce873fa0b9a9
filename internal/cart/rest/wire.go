package rest

import (
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// ProductJSON is the populated product carried on every cart line.
type ProductJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	ImageURL string          `json:"image_url,omitempty"`
}

// LineJSON is one entry of a populated cart response.
type LineJSON struct {
	Product  ProductJSON `json:"product"`
	Quantity int         `json:"quantity"`
}

// SyncItemJSON is one entry of a POST /cart/sync body.
type SyncItemJSON struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func FromLines(lines []domain.CartLine) []LineJSON {
	out := make([]LineJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineJSON{
			Product: ProductJSON{
				ID:       l.ProductID,
				Name:     l.Product.Name,
				Price:    l.UnitPrice,
				Currency: l.Product.Currency,
				ImageURL: l.Product.ImageURL,
			},
			Quantity: l.Quantity,
		})
	}
	return out
}

// ToLines flattens a populated response back into cart lines. Entries
// without a product id or with a quantity below 1 are dropped.
func ToLines(in []LineJSON) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	for _, l := range in {
		if l.Product.ID == "" || l.Quantity < 1 {
			continue
		}
		out = domain.AddLine(out, domain.CartLine{
			ProductID: l.Product.ID,
			UnitPrice: l.Product.Price,
			Product: domain.ProductSnapshot{
				Name:     l.Product.Name,
				ImageURL: l.Product.ImageURL,
				Currency: l.Product.Currency,
			},
		}, l.Quantity)
	}
	return out
}
