package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusActive = "ACTIVE"

// ProductSnapshot holds the display fields captured when a line was added.
type ProductSnapshot struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Currency string `json:"currency"`
}

// CartLine is keyed by ProductID; a cart never holds two lines for one
// product and never holds a line with Quantity < 1.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Product   ProductSnapshot `json:"product"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID        string
	UserID    string
	Status    string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cart) Total() decimal.Decimal { return Total(c.Lines) }
func (c Cart) Count() int             { return Count(c.Lines) }
