package app

import (
	"context"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

type entity interface {
	domain.Requirement | domain.Invoice
}

// entityPtr lets the generic transition reach the shared record.
type entityPtr[T entity] interface {
	*T
	Base() *domain.Record
}

type entityRepo[T entity] interface {
	Get(ctx context.Context, id string) (T, error)
	// Update stores e only when the stored version equals expectedVersion,
	// and returns it with the version bumped. A version mismatch yields
	// ErrConcurrentTransition.
	Update(ctx context.Context, e T, expectedVersion int64) (T, error)
}

type RequirementRepo interface {
	entityRepo[domain.Requirement]
	Create(ctx context.Context, r domain.Requirement) (domain.Requirement, error)
}

type InvoiceRepo interface {
	entityRepo[domain.Invoice]
	Create(ctx context.Context, i domain.Invoice) (domain.Invoice, error)
}

type ProviderDirectory interface {
	Get(ctx context.Context, providerID string) (domain.Provider, error)
	// ByUser returns the provider profile owned by a user, ErrNotFound if none.
	ByUser(ctx context.Context, userID string) (domain.Provider, error)
	IncrementCompleted(ctx context.Context, providerID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event) error
}

type Recorder interface {
	Transition(kind, action, outcome string)
	SideEffectFailed(effect string)
}
