package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/rolegate"
	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

type requirementOp func(ctx context.Context, actor identity.Actor, id string) (domain.Requirement, error)
type invoiceOp func(ctx context.Context, actor identity.Actor, id string) (domain.Invoice, error)

// Routes expects identity.Middleware to run before it.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/requirements", func(r chi.Router) {
		r.Post("/", h.CreateRequirement)
		r.Get("/{id}", h.requirement(h.svc.GetRequirement))
		r.Post("/{id}/accept", h.requirement(h.svc.AcceptRequirement))
		r.Post("/{id}/start", h.requirement(h.svc.StartRequirement))
		r.Post("/{id}/fulfill", h.requirement(h.svc.FulfillRequirement))
		r.Post("/{id}/reject", h.RejectRequirement)
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.CreateInvoice)
		r.Get("/{id}", h.invoice(h.svc.GetInvoice))
		r.Post("/{id}/submit", h.invoice(h.svc.SubmitInvoice))
		r.Post("/{id}/approve", h.invoice(h.svc.ApproveInvoice))
		r.Post("/{id}/reject", h.RejectInvoice)
		r.Post("/{id}/mark-paid", h.invoice(h.svc.MarkInvoicePaid))
	})
}

func (h *Handler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	var req createRequirementRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}
	out, err := h.svc.CreateRequirement(r.Context(), actor, app.NewRequirement{
		ProviderID:  req.ProviderID,
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, FromRequirement(out))
}

func (h *Handler) RejectRequirement(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	reason, ok := readReason(w, r)
	if !ok {
		return
	}
	out, err := h.svc.RejectRequirement(r.Context(), actor, chi.URLParam(r, "id"), reason)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, FromRequirement(out))
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	var req createInvoiceRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}
	out, err := h.svc.CreateInvoice(r.Context(), actor, app.NewInvoice{
		RequirementID: req.RequirementID,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, FromInvoice(out))
}

func (h *Handler) RejectInvoice(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	reason, ok := readReason(w, r)
	if !ok {
		return
	}
	out, err := h.svc.RejectInvoice(r.Context(), actor, chi.URLParam(r, "id"), reason)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, FromInvoice(out))
}

func (h *Handler) requirement(op requirementOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := identity.FromContext(r.Context())
		out, err := op(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, FromRequirement(out))
	}
}

func (h *Handler) invoice(op invoiceOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := identity.FromContext(r.Context())
		out, err := op(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, FromInvoice(out))
	}
}

// readReason accepts an empty body; the reason is optional.
func readReason(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req rejectRequest
	if err := httpx.ReadJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadJSON(w, err)
		return "", false
	}
	return req.Reason, true
}

func writeErr(w http.ResponseWriter, err error) {
	var denied *rolegate.Denied
	switch {
	case errors.As(err, &denied):
		httpx.WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), map[string]string{"reason": string(denied.Reason)})
	case errors.Is(err, app.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, app.ErrConcurrentTransition):
		httpx.WriteError(w, http.StatusConflict, "CONCURRENT_TRANSITION", err.Error(), map[string]bool{"retryable": true})
	case errors.Is(err, domain.ErrInvalidState):
		httpx.WriteError(w, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, domain.ErrUnknownAction):
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
