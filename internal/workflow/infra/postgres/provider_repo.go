package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	pg "github.com/dwikikusuma/storefront-ops/pkg/postgres"
)

type ProviderDirectory struct {
	db *pgxpool.Pool
}

func NewProviderDirectory(db *pgxpool.Pool) *ProviderDirectory {
	return &ProviderDirectory{db: db}
}

func (d *ProviderDirectory) Get(ctx context.Context, id string) (domain.Provider, error) {
	return d.one(ctx, `WHERE id=$1`, id)
}

func (d *ProviderDirectory) ByUser(ctx context.Context, userID string) (domain.Provider, error) {
	return d.one(ctx, `WHERE user_id=$1`, userID)
}

func (d *ProviderDirectory) one(ctx context.Context, where string, arg string) (domain.Provider, error) {
	var p domain.Provider
	err := d.db.QueryRow(ctx, `SELECT id, user_id, manager_id, completed_orders FROM providers `+where, arg).
		Scan(&p.ID, &p.UserID, &p.ManagerID, &p.CompletedOrders)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Provider{}, app.ErrNotFound
	}
	return p, err
}

// IncrementCompleted is a single atomic statement so concurrent credits
// never lose an update.
func (d *ProviderDirectory) IncrementCompleted(ctx context.Context, id string) error {
	tag, err := d.db.Exec(ctx, `UPDATE providers SET completed_orders = completed_orders + 1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

// Upsert registers or reassigns a provider profile.
func (d *ProviderDirectory) Upsert(ctx context.Context, p domain.Provider) error {
	_, err := d.db.Exec(ctx, `
INSERT INTO providers (id, user_id, manager_id)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, manager_id=EXCLUDED.manager_id
`, p.ID, p.UserID, p.ManagerID)
	if pg.IsUniqueViolation(err) {
		return fmt.Errorf("user %s already has a provider profile: %w", p.UserID, app.ErrInvalidInput)
	}
	return err
}
