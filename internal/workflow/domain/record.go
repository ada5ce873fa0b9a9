package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stamps records when each status was first reached. Entries are never
// overwritten or removed.
type Stamps map[Status]time.Time

func (s Stamps) At(status Status) (time.Time, bool) {
	t, ok := s[status]
	return t, ok
}

func (s Stamps) Clone() Stamps {
	out := make(Stamps, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Record is the part shared by every workflow entity.
type Record struct {
	ID              string
	Kind            Kind
	Status          Status
	OwnerID         string // actor that created the entity
	AssigneeID      string // provider the entity is assigned to
	Stamps          Stamps
	RejectionReason string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewRecord(g Graph, id, ownerID, assigneeID string, at time.Time) Record {
	return Record{
		ID:         id,
		Kind:       g.Kind(),
		Status:     g.Initial(),
		OwnerID:    ownerID,
		AssigneeID: assigneeID,
		Stamps:     Stamps{g.Initial(): at},
		Version:    1,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

// Apply moves the record along g. On error the record is unchanged.
func (r *Record) Apply(g Graph, action Action, at time.Time, reason string) error {
	next, err := g.Next(r.Status, action)
	if err != nil {
		return err
	}

	stamps := r.Stamps.Clone()
	if _, done := stamps[next]; !done {
		stamps[next] = at
	}

	r.Status = next
	r.Stamps = stamps
	r.UpdatedAt = at
	if next == StatusRejected {
		r.RejectionReason = strings.TrimSpace(reason)
	}
	return nil
}

type Requirement struct {
	Record
	ManagerID   string
	Title       string
	Description string
	Quantity    int
}

func (r *Requirement) Base() *Record { return &r.Record }

type Invoice struct {
	Record
	RequirementID string
	Amount        decimal.Decimal
	Currency      string
}

func (i *Invoice) Base() *Record { return &i.Record }

type Provider struct {
	ID              string
	UserID          string
	ManagerID       string
	CompletedOrders int
}

// Event describes one applied transition.
type Event struct {
	Kind      Kind      `json:"kind"`
	EntityID  string    `json:"entity_id"`
	Action    Action    `json:"action"`
	From      Status    `json:"from,omitempty"`
	To        Status    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Reason    string    `json:"reason,omitempty"`
	Version   int64     `json:"version"`
	At        time.Time `json:"at"`
}
