package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

type RecordJSON struct {
	ID              string                      `json:"id"`
	Kind            domain.Kind                 `json:"kind"`
	Status          domain.Status               `json:"status"`
	OwnerID         string                      `json:"owner_id"`
	AssigneeID      string                      `json:"assignee_id"`
	Stamps          map[domain.Status]time.Time `json:"stamps"`
	RejectionReason string                      `json:"rejection_reason,omitempty"`
	Version         int64                       `json:"version"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

type RequirementJSON struct {
	RecordJSON
	ManagerID   string `json:"manager_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

type InvoiceJSON struct {
	RecordJSON
	RequirementID string          `json:"requirement_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

type createRequirementRequest struct {
	ProviderID  string `json:"provider_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type createInvoiceRequest struct {
	RequirementID string          `json:"requirement_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func fromRecord(r domain.Record) RecordJSON {
	return RecordJSON{
		ID:              r.ID,
		Kind:            r.Kind,
		Status:          r.Status,
		OwnerID:         r.OwnerID,
		AssigneeID:      r.AssigneeID,
		Stamps:          r.Stamps,
		RejectionReason: r.RejectionReason,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromRequirement(r domain.Requirement) RequirementJSON {
	return RequirementJSON{
		RecordJSON:  fromRecord(r.Record),
		ManagerID:   r.ManagerID,
		Title:       r.Title,
		Description: r.Description,
		Quantity:    r.Quantity,
	}
}

func FromInvoice(i domain.Invoice) InvoiceJSON {
	return InvoiceJSON{
		RecordJSON:    fromRecord(i.Record),
		RequirementID: i.RequirementID,
		Amount:        i.Amount,
		Currency:      i.Currency,
	}
}
