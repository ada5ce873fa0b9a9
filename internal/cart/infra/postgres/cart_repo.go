package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/cart/app"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	pg "github.com/dwikikusuma/storefront-ops/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CartRepo struct {
	db *pgxpool.Pool
}

func NewCartRepo(db *pgxpool.Pool) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.db.QueryRow(ctx, `
SELECT id::text, user_id, status, created_at, updated_at
FROM carts
WHERE user_id=$1 AND status=$2
`, userID, domain.StatusActive).Scan(&c.ID, &c.UserID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	rows, err := r.db.Query(ctx, `
SELECT product_id, quantity, unit_price::text, product_name, image_url, currency
FROM cart_items
WHERE cart_id=$1
ORDER BY seq
`, c.ID)
	if err != nil {
		return domain.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l     domain.CartLine
			price string
		)
		if err := rows.Scan(&l.ProductID, &l.Quantity, &price, &l.Product.Name, &l.Product.ImageURL, &l.Product.Currency); err != nil {
			return domain.Cart{}, err
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return domain.Cart{}, fmt.Errorf("cart %s line %s: %w", c.ID, l.ProductID, err)
		}
		c.Lines = append(c.Lines, l)
	}
	return c, rows.Err()
}

func (r *CartRepo) GetOrCreate(ctx context.Context, userID string) (domain.Cart, error) {
	// 1) Try get
	cart, err := r.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, app.ErrNotFound) {
		return domain.Cart{}, err
	}

	// 2) Not found => try create
	_, createErr := r.db.Exec(ctx, `
INSERT INTO carts(id,user_id,status) VALUES($1,$2,$3)
`, uuid.New(), userID, domain.StatusActive)
	if createErr == nil {
		return r.Get(ctx, userID)
	}

	// 3) If someone else created concurrently => re-get
	if pg.IsUniqueViolation(createErr) {
		return r.Get(ctx, userID)
	}

	return domain.Cart{}, createErr
}

func (r *CartRepo) AddLine(ctx context.Context, cartID string, line domain.CartLine) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.ErrInvalidInput
	}
	_, err = r.db.Exec(ctx, `
INSERT INTO cart_items(cart_id,product_id,quantity,unit_price,product_name,image_url,currency)
VALUES($1,$2,$3,$4::numeric,$5,$6,$7)
ON CONFLICT (cart_id,product_id) DO UPDATE SET quantity=cart_items.quantity+EXCLUDED.quantity
`, cartUUID, line.ProductID, line.Quantity, line.UnitPrice.String(), line.Product.Name, line.Product.ImageURL, line.Product.Currency)
	if err != nil {
		return err
	}
	return r.touch(ctx, r.db, cartUUID)
}

func (r *CartRepo) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.ErrInvalidInput
	}
	tag, err := r.db.Exec(ctx, `
UPDATE cart_items SET quantity=$3 WHERE cart_id=$1 AND product_id=$2
`, cartUUID, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return r.touch(ctx, r.db, cartUUID)
}

func (r *CartRepo) RemoveLine(ctx context.Context, cartID, productID string) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.ErrInvalidInput
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1 AND product_id=$2`, cartUUID, productID); err != nil {
		return err
	}
	return r.touch(ctx, r.db, cartUUID)
}

func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.ErrInvalidInput
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartUUID); err != nil {
		return err
	}
	return r.touch(ctx, r.db, cartUUID)
}

func (r *CartRepo) UpsertQuantities(ctx context.Context, cartID string, lines []domain.CartLine) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.ErrInvalidInput
	}

	return pg.InTx(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, l := range lines {
			if l.Quantity <= 0 {
				batch.Queue(`DELETE FROM cart_items WHERE cart_id=$1 AND product_id=$2`, cartUUID, l.ProductID)
				continue
			}
			batch.Queue(`
INSERT INTO cart_items(cart_id,product_id,quantity,unit_price,product_name,image_url,currency)
VALUES($1,$2,$3,$4::numeric,$5,$6,$7)
ON CONFLICT (cart_id,product_id) DO UPDATE SET quantity=EXCLUDED.quantity
`, cartUUID, l.ProductID, l.Quantity, l.UnitPrice.String(), l.Product.Name, l.Product.ImageURL, l.Product.Currency)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert cart lines: %w", err)
		}
		return r.touch(ctx, tx, cartUUID)
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *CartRepo) touch(ctx context.Context, db execer, cartID uuid.UUID) error {
	_, err := db.Exec(ctx, `UPDATE carts SET updated_at=$2 WHERE id=$1`, cartID, time.Now().UTC())
	return err
}
