package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	pg "github.com/dwikikusuma/storefront-ops/pkg/postgres"
)

type InvoiceRepo struct {
	db *pgxpool.Pool
}

func NewInvoiceRepo(db *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

const invoiceColumns = `id::text, status, owner_id, assignee_id, requirement_id::text, amount::text, currency,
       stamps, rejection_reason, version, created_at, updated_at`

func (r *InvoiceRepo) Create(ctx context.Context, in domain.Invoice) (domain.Invoice, error) {
	stamps, err := json.Marshal(in.Stamps)
	if err != nil {
		return domain.Invoice{}, err
	}
	row := r.db.QueryRow(ctx, `
INSERT INTO invoices (id, status, owner_id, assignee_id, requirement_id, amount, currency,
                      stamps, rejection_reason, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::jsonb, $9, 1, $10, $10)
RETURNING `+invoiceColumns,
		in.ID, in.Status, in.OwnerID, in.AssigneeID, in.RequirementID, in.Amount.String(), in.Currency,
		string(stamps), in.RejectionReason, in.CreatedAt)

	out, err := scanInvoice(row)
	if pg.IsForeignKeyViolation(err) {
		return domain.Invoice{}, fmt.Errorf("requirement %s: %w", in.RequirementID, app.ErrNotFound)
	}
	return out, err
}

func (r *InvoiceRepo) Get(ctx context.Context, id string) (domain.Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id::text=$1`, id)
	out, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Invoice{}, app.ErrNotFound
	}
	return out, err
}

func (r *InvoiceRepo) Update(ctx context.Context, in domain.Invoice, expectedVersion int64) (domain.Invoice, error) {
	stamps, err := json.Marshal(in.Stamps)
	if err != nil {
		return domain.Invoice{}, err
	}
	row := r.db.QueryRow(ctx, `
UPDATE invoices
SET status=$2, stamps=$3::jsonb, rejection_reason=$4, updated_at=$5, version=version+1
WHERE id::text=$1 AND version=$6
RETURNING `+invoiceColumns,
		in.ID, in.Status, string(stamps), in.RejectionReason, updatedAt(in.UpdatedAt), expectedVersion)

	out, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Invoice{}, missingOrStale(ctx, r.db, "invoices", in.ID)
	}
	return out, err
}

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var (
		in     domain.Invoice
		amount string
		stamps []byte
	)
	err := row.Scan(&in.ID, &in.Status, &in.OwnerID, &in.AssigneeID, &in.RequirementID, &amount, &in.Currency,
		&stamps, &in.RejectionReason, &in.Version, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return domain.Invoice{}, err
	}
	in.Kind = domain.KindInvoice
	if in.Amount, err = decimal.NewFromString(amount); err != nil {
		return domain.Invoice{}, fmt.Errorf("invoice %s amount: %w", in.ID, err)
	}
	if err := json.Unmarshal(stamps, &in.Stamps); err != nil {
		return domain.Invoice{}, fmt.Errorf("invoice %s stamps: %w", in.ID, err)
	}
	return in, nil
}
