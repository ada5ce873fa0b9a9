package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/order/app"
	"github.com/dwikikusuma/storefront-ops/internal/order/domain"
	pg "github.com/dwikikusuma/storefront-ops/pkg/postgres"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	created := order
	created.ID = uuid.NewString()
	created.Items = make([]domain.OrderItem, 0, len(order.Items))

	err := pg.InTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO orders (id, user_id, status, currency, subtotal_amount, shipping_amount, total_amount)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric)
RETURNING created_at, updated_at
`, created.ID, order.UserID, order.Status, order.Currency,
			order.Subtotal.String(), order.Shipping.String(), order.Total.String()).
			Scan(&created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		batch := &pgx.Batch{}
		for i, item := range order.Items {
			expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if !item.LineTotal.Equal(expected) {
				return fmt.Errorf("item %d: line total mismatch", i)
			}
			item.ID = uuid.NewString()
			item.OrderID = created.ID
			batch.Queue(`
INSERT INTO order_items (id, order_id, product_id, name, unit_amount, quantity, line_total_amount)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric)
`, item.ID, item.OrderID, item.ProductID, item.Name, item.UnitPrice.String(), item.Quantity, item.LineTotal.String())
			created.Items = append(created.Items, item)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range created.Items {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var (
		o                         domain.Order
		subtotal, shipping, total string
	)
	err := r.db.QueryRow(ctx, `
SELECT id::text, user_id, status, currency, subtotal_amount::text, shipping_amount::text, total_amount::text,
       created_at, updated_at
FROM orders
WHERE id::text=$1
`, id).Scan(&o.ID, &o.UserID, &o.Status, &o.Currency, &subtotal, &shipping, &total, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return domain.Order{}, err
	}
	if o.Shipping, err = decimal.NewFromString(shipping); err != nil {
		return domain.Order{}, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, err
	}

	rows, err := r.db.Query(ctx, `
SELECT id::text, product_id, name, unit_amount::text, quantity, line_total_amount::text
FROM order_items
WHERE order_id=$1
ORDER BY name, id
`, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it              domain.OrderItem
			unit, lineTotal string
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &unit, &it.Quantity, &lineTotal); err != nil {
			return domain.Order{}, err
		}
		it.OrderID = o.ID
		if it.UnitPrice, err = decimal.NewFromString(unit); err != nil {
			return domain.Order{}, err
		}
		if it.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}
