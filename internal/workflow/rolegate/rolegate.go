// Package rolegate decides whether an actor may perform a workflow action.
// Every rule lives in the table below; nothing else in the workflow grants
// or denies access.
package rolegate

import (
	"errors"
	"fmt"

	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

var ErrForbidden = errors.New("forbidden")

type Reason string

const (
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonWrongManager     Reason = "wrong_manager"
	ReasonNotAssignee      Reason = "not_assignee"
	ReasonUnknownAction    Reason = "unknown_action"
)

// Facts are the entity-side inputs a rule may look at. The caller resolves
// them before calling Check so the gate stays free of I/O.
type Facts struct {
	// ActorProviderID is the provider profile owned by the actor, empty if none.
	ActorProviderID string
	AssigneeID      string
	TargetManagerID string
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns nil for an allowed decision and a *Denied otherwise.
func (d Decision) Err(kind domain.Kind, action domain.Action) error {
	if d.Allowed {
		return nil
	}
	return &Denied{Kind: kind, Action: action, Reason: d.Reason}
}

type Denied struct {
	Kind   domain.Kind
	Action domain.Action
	Reason Reason
}

func (e *Denied) Error() string {
	return fmt.Sprintf("%s %s denied: %s", e.Kind, e.Action, e.Reason)
}

func (e *Denied) Unwrap() error { return ErrForbidden }

type rule func(a identity.Actor, f Facts) Decision

type key struct {
	kind   domain.Kind
	action domain.Action
}

var table = map[key]rule{
	{domain.KindRequirement, domain.ActionCreate}:  creatorOnly,
	{domain.KindRequirement, domain.ActionView}:    participant,
	{domain.KindRequirement, domain.ActionAccept}:  assigneeOnly,
	{domain.KindRequirement, domain.ActionStart}:   assigneeOnly,
	{domain.KindRequirement, domain.ActionFulfill}: assigneeOnly,
	{domain.KindRequirement, domain.ActionReject}:  assigneeOnly,

	{domain.KindInvoice, domain.ActionCreate}:   assigneeOnly,
	{domain.KindInvoice, domain.ActionView}:     participant,
	{domain.KindInvoice, domain.ActionSubmit}:   assigneeOnly,
	{domain.KindInvoice, domain.ActionApprove}:  approverOnly,
	{domain.KindInvoice, domain.ActionReject}:   approverOnly,
	{domain.KindInvoice, domain.ActionMarkPaid}: approverOnly,
}

// Check evaluates the rule for (kind, action). Pairs without a rule are denied.
func Check(a identity.Actor, kind domain.Kind, action domain.Action, f Facts) Decision {
	r, ok := table[key{kind, action}]
	if !ok {
		return deny(ReasonUnknownAction)
	}
	return r(a, f)
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

func isAssignee(f Facts) bool {
	return f.ActorProviderID != "" && f.ActorProviderID == f.AssigneeID
}

func creatorOnly(a identity.Actor, f Facts) Decision {
	if !a.Role.IsStaff() {
		return deny(ReasonInsufficientRole)
	}
	if a.Role == identity.RoleManager && f.TargetManagerID != a.ID {
		return deny(ReasonWrongManager)
	}
	return allow()
}

func assigneeOnly(_ identity.Actor, f Facts) Decision {
	if !isAssignee(f) {
		return deny(ReasonNotAssignee)
	}
	return allow()
}

func approverOnly(a identity.Actor, _ Facts) Decision {
	if !a.Role.IsStaff() {
		return deny(ReasonInsufficientRole)
	}
	return allow()
}

// participant lets staff and the assigned provider read an entity.
func participant(a identity.Actor, f Facts) Decision {
	if a.Role.IsStaff() || isAssignee(f) {
		return allow()
	}
	return deny(ReasonNotAssignee)
}
