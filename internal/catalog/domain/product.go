package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Money struct {
	Currency string
	Amount   decimal.Decimal
}

type Product struct {
	ID          string
	Name        string
	Price       Money
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
