package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/checkout/app"
	"github.com/dwikikusuma/storefront-ops/internal/checkout/domain"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects identity.Middleware to run before it.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/checkout/quote", h.Quote)
	r.Post("/checkout", h.PlaceOrder)
}

type MoneyJSON struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type QuoteLineJSON struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice MoneyJSON `json:"unit_price"`
	LineTotal MoneyJSON `json:"line_total"`
}

type QuoteJSON struct {
	Lines    []QuoteLineJSON `json:"lines"`
	Subtotal MoneyJSON       `json:"subtotal"`
	Shipping MoneyJSON       `json:"shipping"`
	Total    MoneyJSON       `json:"total"`
}

type OrderJSON struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     MoneyJSON `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	q, err := h.svc.Quote(r.Context(), actor.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toQuoteJSON(q))
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.FromContext(r.Context())
	o, err := h.svc.PlaceOrder(r.Context(), actor.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, OrderJSON{
		ID:        o.ID,
		Status:    o.Status,
		Total:     money(o.Total),
		CreatedAt: o.CreatedAt,
	})
}

func money(m domain.Money) MoneyJSON {
	return MoneyJSON{Currency: m.Currency, Amount: m.Amount}
}

func toQuoteJSON(q domain.Quote) QuoteJSON {
	lines := make([]QuoteLineJSON, 0, len(q.Lines))
	for _, ln := range q.Lines {
		lines = append(lines, QuoteLineJSON{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Quantity:  ln.Quantity,
			UnitPrice: money(ln.UnitPrice),
			LineTotal: money(ln.LineTotal),
		})
	}
	return QuoteJSON{
		Lines:    lines,
		Subtotal: money(q.Subtotal),
		Shipping: money(q.Shipping),
		Total:    money(q.Total),
	}
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEmptyCart):
		httpx.WriteError(w, http.StatusConflict, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, app.ErrMixedCurrency):
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
