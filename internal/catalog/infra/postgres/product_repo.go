package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront-ops/internal/catalog/app"
	"github.com/dwikikusuma/storefront-ops/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id::text, name, description, image_url, price_amount::text, currency, created_at, updated_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		amount string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &amount, &p.Price.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: bad price %q: %w", p.ID, amount, err)
	}
	p.Price.Amount = d
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO products(id,name,description,image_url,price_amount,currency)
VALUES($1,$2,$3,$4,$5::numeric,$6)
RETURNING `+productColumns,
		uuid.New(), p.Name, p.Description, p.ImageURL, p.Price.Amount.String(), p.Price.Currency)
	return scanProduct(row)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	product, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, prodID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur *uuid.UUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = &uid
	}

	rows, err := r.db.Query(ctx, `
SELECT `+productColumns+`
FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  AND ($2::uuid IS NULL OR id > $2::uuid)
ORDER BY id
LIMIT $3
`, strings.TrimSpace(query), cur, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := make([]domain.Product, 0, limit)
	var nextCursor string

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
		nextCursor = p.ID
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}
