package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/rolegate"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrConcurrentTransition means another writer moved the entity first.
	// The caller may reload and retry.
	ErrConcurrentTransition = errors.New("concurrent transition")
)

const (
	effectProviderCounter = "provider_counter"
	effectEventPublish    = "event_publish"

	defaultSideEffectTimeout = 2 * time.Second
)

type Deps struct {
	Requirements RequirementRepo
	Invoices     InvoiceRepo
	Providers    ProviderDirectory

	// Optional.
	Events   EventPublisher
	Recorder Recorder
	Log      *slog.Logger
	Now      func() time.Time

	// SideEffectTimeout bounds each post-write side effect. Defaults to 2s.
	SideEffectTimeout time.Duration
}

type Service struct {
	reqs      RequirementRepo
	invs      InvoiceRepo
	providers ProviderDirectory
	events    EventPublisher
	rec       Recorder
	log       *slog.Logger
	now       func() time.Time
	effectTTL time.Duration
}

func NewService(d Deps) *Service {
	s := &Service{
		reqs:      d.Requirements,
		invs:      d.Invoices,
		providers: d.Providers,
		events:    d.Events,
		rec:       d.Recorder,
		log:       d.Log,
		now:       d.Now,
		effectTTL: d.SideEffectTimeout,
	}
	if s.effectTTL <= 0 {
		s.effectTTL = defaultSideEffectTimeout
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

type NewRequirement struct {
	ProviderID  string
	Title       string
	Description string
	Quantity    int
}

func (s *Service) CreateRequirement(ctx context.Context, actor identity.Actor, in NewRequirement) (domain.Requirement, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Quantity < 1 || strings.TrimSpace(in.ProviderID) == "" {
		return domain.Requirement{}, ErrInvalidInput
	}

	p, err := s.providers.Get(ctx, in.ProviderID)
	if err != nil {
		return domain.Requirement{}, fmt.Errorf("provider %s: %w", in.ProviderID, err)
	}

	kind, action := domain.KindRequirement, domain.ActionCreate
	if err := s.gate(actor, kind, action, rolegate.Facts{TargetManagerID: p.ManagerID}); err != nil {
		return domain.Requirement{}, err
	}

	r := domain.Requirement{
		Record:      domain.NewRecord(domain.RequirementGraph, uuid.NewString(), actor.ID, p.ID, s.now()),
		ManagerID:   p.ManagerID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
	}
	saved, err := s.reqs.Create(ctx, r)
	if err != nil {
		s.observe(kind, action, "failed")
		return domain.Requirement{}, err
	}

	s.observe(kind, action, "applied")
	s.publish(ctx, actor, saved.Record, "", action)
	return saved, nil
}

func (s *Service) GetRequirement(ctx context.Context, actor identity.Actor, id string) (domain.Requirement, error) {
	return view[domain.Requirement](ctx, s, s.reqs, domain.KindRequirement, actor, id)
}

func (s *Service) AcceptRequirement(ctx context.Context, actor identity.Actor, id string) (domain.Requirement, error) {
	return transition[domain.Requirement](ctx, s, s.reqs, domain.RequirementGraph, actor, id, domain.ActionAccept, "")
}

func (s *Service) StartRequirement(ctx context.Context, actor identity.Actor, id string) (domain.Requirement, error) {
	return transition[domain.Requirement](ctx, s, s.reqs, domain.RequirementGraph, actor, id, domain.ActionStart, "")
}

// FulfillRequirement completes a requirement and credits the assigned
// provider's completed-order counter.
func (s *Service) FulfillRequirement(ctx context.Context, actor identity.Actor, id string) (domain.Requirement, error) {
	return transition[domain.Requirement](ctx, s, s.reqs, domain.RequirementGraph, actor, id, domain.ActionFulfill, "")
}

func (s *Service) RejectRequirement(ctx context.Context, actor identity.Actor, id, reason string) (domain.Requirement, error) {
	return transition[domain.Requirement](ctx, s, s.reqs, domain.RequirementGraph, actor, id, domain.ActionReject, reason)
}

type NewInvoice struct {
	RequirementID string
	Amount        decimal.Decimal
	Currency      string
}

// CreateInvoice opens a draft invoice against a fulfilled requirement. Only
// the requirement's assignee may invoice it.
func (s *Service) CreateInvoice(ctx context.Context, actor identity.Actor, in NewInvoice) (domain.Invoice, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if strings.TrimSpace(in.RequirementID) == "" || !in.Amount.IsPositive() || len(in.Currency) != 3 {
		return domain.Invoice{}, ErrInvalidInput
	}

	req, err := s.reqs.Get(ctx, in.RequirementID)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("requirement %s: %w", in.RequirementID, err)
	}

	kind, action := domain.KindInvoice, domain.ActionCreate
	facts, err := s.facts(ctx, actor, req.AssigneeID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := s.gate(actor, kind, action, facts); err != nil {
		return domain.Invoice{}, err
	}
	if req.Status != domain.StatusFulfilled {
		s.observe(kind, action, "invalid_state")
		return domain.Invoice{}, fmt.Errorf("invoice for %s requirement: %w", req.Status, domain.ErrInvalidState)
	}

	inv := domain.Invoice{
		Record:        domain.NewRecord(domain.InvoiceGraph, uuid.NewString(), actor.ID, req.AssigneeID, s.now()),
		RequirementID: req.ID,
		Amount:        in.Amount,
		Currency:      in.Currency,
	}
	saved, err := s.invs.Create(ctx, inv)
	if err != nil {
		s.observe(kind, action, "failed")
		return domain.Invoice{}, err
	}

	s.observe(kind, action, "applied")
	s.publish(ctx, actor, saved.Record, "", action)
	return saved, nil
}

func (s *Service) GetInvoice(ctx context.Context, actor identity.Actor, id string) (domain.Invoice, error) {
	return view[domain.Invoice](ctx, s, s.invs, domain.KindInvoice, actor, id)
}

func (s *Service) SubmitInvoice(ctx context.Context, actor identity.Actor, id string) (domain.Invoice, error) {
	return transition[domain.Invoice](ctx, s, s.invs, domain.InvoiceGraph, actor, id, domain.ActionSubmit, "")
}

func (s *Service) ApproveInvoice(ctx context.Context, actor identity.Actor, id string) (domain.Invoice, error) {
	return transition[domain.Invoice](ctx, s, s.invs, domain.InvoiceGraph, actor, id, domain.ActionApprove, "")
}

func (s *Service) RejectInvoice(ctx context.Context, actor identity.Actor, id, reason string) (domain.Invoice, error) {
	return transition[domain.Invoice](ctx, s, s.invs, domain.InvoiceGraph, actor, id, domain.ActionReject, reason)
}

func (s *Service) MarkInvoicePaid(ctx context.Context, actor identity.Actor, id string) (domain.Invoice, error) {
	return transition[domain.Invoice](ctx, s, s.invs, domain.InvoiceGraph, actor, id, domain.ActionMarkPaid, "")
}

func view[T entity, P entityPtr[T]](ctx context.Context, s *Service, repo entityRepo[T], kind domain.Kind, actor identity.Actor, id string) (T, error) {
	var zero T
	e, err := repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	facts, err := s.facts(ctx, actor, P(&e).Base().AssigneeID)
	if err != nil {
		return zero, err
	}
	if d := rolegate.Check(actor, kind, domain.ActionView, facts); !d.Allowed {
		return zero, d.Err(kind, domain.ActionView)
	}
	return e, nil
}

// transition runs one gated, version-checked move along g. Side effects
// run only after the new status is stored and never undo it.
func transition[T entity, P entityPtr[T]](ctx context.Context, s *Service, repo entityRepo[T], g domain.Graph, actor identity.Actor, id string, action domain.Action, reason string) (T, error) {
	var zero T
	kind := g.Kind()

	e, err := repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	rec := P(&e).Base()

	facts, err := s.facts(ctx, actor, rec.AssigneeID)
	if err != nil {
		return zero, err
	}
	if err := s.gate(actor, kind, action, facts); err != nil {
		return zero, err
	}

	from, expected := rec.Status, rec.Version
	if err := rec.Apply(g, action, s.now(), reason); err != nil {
		s.observe(kind, action, "invalid_state")
		return zero, err
	}

	saved, err := repo.Update(ctx, e, expected)
	if err != nil {
		if errors.Is(err, ErrConcurrentTransition) {
			s.observe(kind, action, "conflict")
		} else {
			s.observe(kind, action, "failed")
		}
		return zero, err
	}
	s.observe(kind, action, "applied")

	after := *P(&saved).Base()
	if kind == domain.KindRequirement && after.Status == domain.StatusFulfilled {
		s.creditProvider(ctx, after)
	}
	s.publish(ctx, actor, after, from, action)
	return saved, nil
}

func (s *Service) gate(actor identity.Actor, kind domain.Kind, action domain.Action, f rolegate.Facts) error {
	d := rolegate.Check(actor, kind, action, f)
	if d.Allowed {
		return nil
	}
	s.observe(kind, action, "denied")
	s.log.Info("workflow action denied",
		slog.String("kind", string(kind)),
		slog.String("action", string(action)),
		slog.String("actor_id", actor.ID),
		slog.String("reason", string(d.Reason)),
	)
	return d.Err(kind, action)
}

// facts resolves the actor's provider profile. Actors without one simply
// carry an empty ActorProviderID.
func (s *Service) facts(ctx context.Context, actor identity.Actor, assigneeID string) (rolegate.Facts, error) {
	f := rolegate.Facts{AssigneeID: assigneeID}
	if actor.Role != identity.RoleProvider {
		return f, nil
	}
	p, err := s.providers.ByUser(ctx, actor.ID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return rolegate.Facts{}, fmt.Errorf("provider profile for %s: %w", actor.ID, err)
	default:
		f.ActorProviderID = p.ID
	}
	return f, nil
}

// effectContext detaches side effects from the caller's cancellation but
// keeps them bounded, so a slow dependency cannot hold the response open.
func (s *Service) effectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.effectTTL)
}

func (s *Service) creditProvider(ctx context.Context, r domain.Record) {
	ctx, cancel := s.effectContext(ctx)
	defer cancel()
	if err := s.providers.IncrementCompleted(ctx, r.AssigneeID); err != nil {
		s.sideEffectFailed(effectProviderCounter, r, err)
	}
}

func (s *Service) publish(ctx context.Context, actor identity.Actor, r domain.Record, from domain.Status, action domain.Action) {
	if s.events == nil {
		return
	}
	ev := domain.Event{
		Kind:      r.Kind,
		EntityID:  r.ID,
		Action:    action,
		From:      from,
		To:        r.Status,
		ActorID:   actor.ID,
		ActorRole: actor.Role.String(),
		Reason:    r.RejectionReason,
		Version:   r.Version,
		At:        r.UpdatedAt,
	}
	ctx, cancel := s.effectContext(ctx)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.sideEffectFailed(effectEventPublish, r, err)
	}
}

func (s *Service) sideEffectFailed(effect string, r domain.Record, err error) {
	if s.rec != nil {
		s.rec.SideEffectFailed(effect)
	}
	s.log.Error("workflow side effect failed",
		slog.String("effect", effect),
		slog.String("kind", string(r.Kind)),
		slog.String("id", r.ID),
		slog.String("status", string(r.Status)),
		slog.Any("err", err),
	)
}

func (s *Service) observe(kind domain.Kind, action domain.Action, outcome string) {
	if s.rec != nil {
		s.rec.Transition(string(kind), string(action), outcome)
	}
}
