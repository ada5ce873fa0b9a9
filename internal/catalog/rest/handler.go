package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/catalog/app"
	"github.com/dwikikusuma/storefront-ops/internal/catalog/domain"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.With(identity.Middleware).Post("/products", h.CreateProduct)
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	if actor.Role != identity.RoleAdmin && actor.Role != identity.RoleSuperAdmin {
		httpx.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only admins manage the catalog", nil)
		return
	}

	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		ImageURL    string          `json:"image_url"`
		Price       decimal.Decimal `json:"price"`
		Currency    string          `json:"currency"`
	}
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.BadJSON(w, err)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), app.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Currency:    req.Currency,
		Amount:      req.Price,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toJSON(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toJSON(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, next, err := h.svc.ListProducts(r.Context(), q.Get("q"), limit, q.Get("cursor"))
	if err != nil {
		writeErr(w, err)
		return
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, toJSON(p))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"products": out, "next_cursor": next})
}

func toJSON(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price.Amount,
		Currency:    p.Price.Currency,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
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
