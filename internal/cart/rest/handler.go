package rest

import (
	"errors"
	"net/http"

	"github.com/dwikikusuma/storefront-ops/internal/cart/app"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects identity.Middleware to run before it.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/add", h.AddItem)
		r.Post("/sync", h.Sync)
		r.Put("/{productId}", h.SetItemQuantity)
		r.Delete("/{productId}", h.RemoveItem)
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	cart, err := h.svc.GetCart(r.Context(), actor.ID)
	h.respond(w, cart, err)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	var req SyncItemJSON
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := h.svc.AddItem(r.Context(), actor.ID, req.Product, req.Quantity)
	h.respond(w, cart, err)
}

func (h *Handler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}
	cart, err := h.svc.SetItemQuantity(r.Context(), actor.ID, chi.URLParam(r, "productId"), req.Quantity)
	h.respond(w, cart, err)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	cart, err := h.svc.RemoveItem(r.Context(), actor.ID, chi.URLParam(r, "productId"))
	h.respond(w, cart, err)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	if err := h.svc.ClearCart(r.Context(), actor.ID); err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, []LineJSON{})
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	var req []SyncItemJSON
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}

	items := make([]app.SyncItem, 0, len(req))
	for _, it := range req {
		items = append(items, app.SyncItem{ProductID: it.Product, Quantity: it.Quantity})
	}
	cart, err := h.svc.Sync(r.Context(), actor.ID, items)
	h.respond(w, cart, err)
}

func (h *Handler) respond(w http.ResponseWriter, cart domain.Cart, err error) {
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, FromLines(cart.Lines))
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, app.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
