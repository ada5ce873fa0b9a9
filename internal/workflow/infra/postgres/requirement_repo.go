package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	pg "github.com/dwikikusuma/storefront-ops/pkg/postgres"
)

type RequirementRepo struct {
	db *pgxpool.Pool
}

func NewRequirementRepo(db *pgxpool.Pool) *RequirementRepo {
	return &RequirementRepo{db: db}
}

const requirementColumns = `id::text, status, owner_id, assignee_id, manager_id, title, description, quantity,
       stamps, rejection_reason, version, created_at, updated_at`

func (r *RequirementRepo) Create(ctx context.Context, q domain.Requirement) (domain.Requirement, error) {
	stamps, err := json.Marshal(q.Stamps)
	if err != nil {
		return domain.Requirement{}, err
	}
	row := r.db.QueryRow(ctx, `
INSERT INTO requirements (id, status, owner_id, assignee_id, manager_id, title, description, quantity,
                          stamps, rejection_reason, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, 1, $11, $11)
RETURNING `+requirementColumns,
		q.ID, q.Status, q.OwnerID, q.AssigneeID, q.ManagerID, q.Title, q.Description, q.Quantity,
		string(stamps), q.RejectionReason, q.CreatedAt)

	out, err := scanRequirement(row)
	if pg.IsForeignKeyViolation(err) {
		return domain.Requirement{}, fmt.Errorf("provider %s: %w", q.AssigneeID, app.ErrNotFound)
	}
	return out, err
}

func (r *RequirementRepo) Get(ctx context.Context, id string) (domain.Requirement, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id::text=$1`, id)
	out, err := scanRequirement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Requirement{}, app.ErrNotFound
	}
	return out, err
}

func (r *RequirementRepo) Update(ctx context.Context, q domain.Requirement, expectedVersion int64) (domain.Requirement, error) {
	stamps, err := json.Marshal(q.Stamps)
	if err != nil {
		return domain.Requirement{}, err
	}
	row := r.db.QueryRow(ctx, `
UPDATE requirements
SET status=$2, stamps=$3::jsonb, rejection_reason=$4, updated_at=$5, version=version+1
WHERE id::text=$1 AND version=$6
RETURNING `+requirementColumns,
		q.ID, q.Status, string(stamps), q.RejectionReason, updatedAt(q.UpdatedAt), expectedVersion)

	out, err := scanRequirement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Requirement{}, missingOrStale(ctx, r.db, "requirements", q.ID)
	}
	return out, err
}

func scanRequirement(row pgx.Row) (domain.Requirement, error) {
	var (
		q      domain.Requirement
		stamps []byte
	)
	err := row.Scan(&q.ID, &q.Status, &q.OwnerID, &q.AssigneeID, &q.ManagerID, &q.Title, &q.Description, &q.Quantity,
		&stamps, &q.RejectionReason, &q.Version, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return domain.Requirement{}, err
	}
	q.Kind = domain.KindRequirement
	if err := json.Unmarshal(stamps, &q.Stamps); err != nil {
		return domain.Requirement{}, fmt.Errorf("requirement %s stamps: %w", q.ID, err)
	}
	return q, nil
}

// missingOrStale tells a vanished row from a version mismatch after a
// conditional update matched nothing.
func missingOrStale(ctx context.Context, db *pgxpool.Pool, table, id string) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id::text=$1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return app.ErrNotFound
	}
	return app.ErrConcurrentTransition
}

func updatedAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
