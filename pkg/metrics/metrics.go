package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	WorkflowTransitions *prometheus.CounterVec
	SideEffectFailures  *prometheus.CounterVec
	CartSyncs           *prometheus.CounterVec
	OrdersPlaced        prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_workflow_transitions_total",
		Help: "Workflow transition attempts by entity kind, action and outcome.",
	}, []string{"kind", "action", "outcome"})
	sideEffects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_workflow_side_effect_failures_total",
		Help: "Best-effort secondary writes that failed after a transition was persisted.",
	}, []string{"effect"})
	cartSyncs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_syncs_total",
		Help: "Server side cart sync batches by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
	})

	r.MustRegister(transitions, sideEffects, cartSyncs, orders)
	return &Registry{
		reg:                 r,
		WorkflowTransitions: transitions,
		SideEffectFailures:  sideEffects,
		CartSyncs:           cartSyncs,
		OrdersPlaced:        orders,
	}
}

func (r *Registry) Transition(kind, action, outcome string) {
	r.WorkflowTransitions.WithLabelValues(kind, action, outcome).Inc()
}

func (r *Registry) SideEffectFailed(effect string) {
	r.SideEffectFailures.WithLabelValues(effect).Inc()
}

func (r *Registry) CartSynced(outcome string) {
	r.CartSyncs.WithLabelValues(outcome).Inc()
}

func (r *Registry) OrderPlaced() { r.OrdersPlaced.Inc() }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
