// Package memory holds in-process workflow repositories used by the dev
// server and by tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

type table[T any] struct {
	mu   sync.Mutex
	rows map[string]T
	base func(*T) *domain.Record
}

func newTable[T any](base func(*T) *domain.Record) *table[T] {
	return &table[T]{rows: make(map[string]T), base: base}
}

func (t *table[T]) detach(e T) T {
	rec := t.base(&e)
	rec.Stamps = rec.Stamps.Clone()
	return e
}

func (t *table[T]) Create(_ context.Context, e T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.base(&e)
	if _, dup := t.rows[rec.ID]; dup {
		var zero T
		return zero, fmt.Errorf("%s %s exists: %w", rec.Kind, rec.ID, app.ErrInvalidInput)
	}
	rec.Version = 1
	t.rows[rec.ID] = t.detach(e)
	return t.detach(e), nil
}

func (t *table[T]) Get(_ context.Context, id string) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, app.ErrNotFound
	}
	return t.detach(e), nil
}

func (t *table[T]) Update(_ context.Context, e T, expectedVersion int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	rec := t.base(&e)
	cur, ok := t.rows[rec.ID]
	if !ok {
		return zero, app.ErrNotFound
	}
	if t.base(&cur).Version != expectedVersion {
		return zero, app.ErrConcurrentTransition
	}
	rec.Version = expectedVersion + 1
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	t.rows[rec.ID] = t.detach(e)
	return t.detach(e), nil
}

type RequirementRepo struct{ *table[domain.Requirement] }

func NewRequirementRepo() *RequirementRepo {
	return &RequirementRepo{newTable((*domain.Requirement).Base)}
}

type InvoiceRepo struct{ *table[domain.Invoice] }

func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{newTable((*domain.Invoice).Base)}
}

type ProviderDirectory struct {
	mu        sync.Mutex
	providers map[string]domain.Provider
}

// NewProviderDirectory panics when two providers share a user id.
func NewProviderDirectory(ps ...domain.Provider) *ProviderDirectory {
	d := &ProviderDirectory{providers: make(map[string]domain.Provider)}
	for _, p := range ps {
		if err := d.put(p); err != nil {
			panic(err)
		}
	}
	return d
}

// Upsert registers or reassigns a provider, keeping its completed count.
// A user may hold only one provider profile.
func (d *ProviderDirectory) Upsert(_ context.Context, p domain.Provider) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.put(p)
}

func (d *ProviderDirectory) put(p domain.Provider) error {
	for id, other := range d.providers {
		if id != p.ID && other.UserID == p.UserID {
			return fmt.Errorf("user %s already has provider %s: %w", p.UserID, id, app.ErrInvalidInput)
		}
	}
	if cur, ok := d.providers[p.ID]; ok {
		p.CompletedOrders = cur.CompletedOrders
	}
	d.providers[p.ID] = p
	return nil
}

func (d *ProviderDirectory) Get(_ context.Context, id string) (domain.Provider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.providers[id]
	if !ok {
		return domain.Provider{}, app.ErrNotFound
	}
	return p, nil
}

func (d *ProviderDirectory) ByUser(_ context.Context, userID string) (domain.Provider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.providers {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.Provider{}, app.ErrNotFound
}

func (d *ProviderDirectory) IncrementCompleted(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.providers[id]
	if !ok {
		return app.ErrNotFound
	}
	p.CompletedOrders++
	d.providers[id] = p
	return nil
}
