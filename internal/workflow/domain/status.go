package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindRequirement Kind = "requirement"
	KindInvoice     Kind = "invoice"
)

type Status string

const (
	// requirement
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusFulfilled  Status = "fulfilled"

	// invoice
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"

	// both
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionCreate   Action = "create"
	ActionView     Action = "view"
	ActionAccept   Action = "accept"
	ActionStart    Action = "start"
	ActionFulfill  Action = "fulfill"
	ActionReject   Action = "reject"
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionMarkPaid Action = "mark_paid"
)

var (
	ErrInvalidState  = errors.New("invalid state for transition")
	ErrUnknownAction = errors.New("unknown action")
)

type edge struct {
	from []Status
	to   Status
}

// Graph is the fixed transition table of one entity kind.
type Graph struct {
	kind     Kind
	initial  Status
	terminal map[Status]bool
	edges    map[Action]edge
}

var RequirementGraph = Graph{
	kind:     KindRequirement,
	initial:  StatusPending,
	terminal: map[Status]bool{StatusFulfilled: true, StatusRejected: true},
	edges: map[Action]edge{
		ActionAccept:  {from: []Status{StatusPending}, to: StatusAccepted},
		ActionReject:  {from: []Status{StatusPending}, to: StatusRejected},
		ActionStart:   {from: []Status{StatusAccepted}, to: StatusInProgress},
		ActionFulfill: {from: []Status{StatusAccepted, StatusInProgress}, to: StatusFulfilled},
	},
}

var InvoiceGraph = Graph{
	kind:     KindInvoice,
	initial:  StatusDraft,
	terminal: map[Status]bool{StatusPaid: true, StatusRejected: true},
	edges: map[Action]edge{
		ActionSubmit:   {from: []Status{StatusDraft}, to: StatusSubmitted},
		ActionApprove:  {from: []Status{StatusSubmitted}, to: StatusApproved},
		ActionReject:   {from: []Status{StatusSubmitted}, to: StatusRejected},
		ActionMarkPaid: {from: []Status{StatusApproved}, to: StatusPaid},
	},
}

func (g Graph) Kind() Kind               { return g.kind }
func (g Graph) Initial() Status          { return g.initial }
func (g Graph) IsTerminal(s Status) bool { return g.terminal[s] }

// Next returns the status action leads to from the given status.
func (g Graph) Next(from Status, action Action) (Status, error) {
	e, ok := g.edges[action]
	if !ok {
		return "", fmt.Errorf("%s %s: %w", g.kind, action, ErrUnknownAction)
	}
	if g.terminal[from] {
		return "", fmt.Errorf("%s %s from terminal %s: %w", g.kind, action, from, ErrInvalidState)
	}
	for _, f := range e.from {
		if f == from {
			return e.to, nil
		}
	}
	return "", fmt.Errorf("%s %s from %s: %w", g.kind, action, from, ErrInvalidState)
}
