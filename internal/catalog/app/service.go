package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront-ops/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type NewProduct struct {
	Name        string
	Description string
	ImageURL    string
	Currency    string
	Amount      decimal.Decimal
}

type Service struct {
	repo            ProductRepo
	defaultCurrency string
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// WithDefaultCurrency sets the currency given to products created without one.
func (s *Service) WithDefaultCurrency(c string) *Service {
	s.defaultCurrency = strings.ToUpper(strings.TrimSpace(c))
	return s
}

func (s *Service) CreateProduct(ctx context.Context, in NewProduct) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	if name == "" || currency == "" || !in.Amount.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:        name,
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price: domain.Money{
			Currency: currency,
			Amount:   in.Amount,
		},
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}
