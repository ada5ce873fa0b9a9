package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Money struct {
	Currency string
	Amount   decimal.Decimal
}

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice Money
	LineTotal Money
}

type Quote struct {
	Lines    []QuoteLine
	Subtotal Money
	Shipping Money
	Total    Money
}

type PlacedOrder struct {
	ID        string
	Status    string
	Total     Money
	CreatedAt time.Time
}
