// Package reconcile merges the anonymous local cart into the server cart
// when a user signs in.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/dwikikusuma/storefront-ops/internal/identity"
	"github.com/dwikikusuma/storefront-ops/internal/localcart"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
)

var ErrSyncFailure = errors.New("cart sync failed")

type SyncItem struct {
	ProductID string
	Quantity  int
}

// Syncer submits a batch to the server cart and returns the server's
// resulting cart as flat lines.
type Syncer interface {
	Sync(ctx context.Context, actor identity.Actor, items []SyncItem) ([]domain.CartLine, error)
}

type Service struct {
	store  *localcart.Store
	syncer Syncer
	log    *slog.Logger

	mu     sync.Mutex
	signed string // actor id of the current session, empty when anonymous
}

func New(store *localcart.Store, syncer Syncer, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{store: store, syncer: syncer, log: log}
}

// LoggedIn handles the anonymous -> authenticated event. Only the first call
// for a session reconciles; repeats for the same actor are ignored until
// LoggedOut. Sync failures are logged, never returned. The result reports
// whether the local cart now mirrors the server cart.
func (s *Service) LoggedIn(ctx context.Context, actor identity.Actor) bool {
	s.mu.Lock()
	if s.signed == actor.ID {
		s.mu.Unlock()
		return false
	}
	s.signed = actor.ID
	s.mu.Unlock()

	if err := s.Reconcile(ctx, actor); err != nil {
		s.log.Warn("cart reconciliation abandoned; local cart kept",
			slog.String("actor_id", actor.ID),
			slog.Int("local_lines", len(s.store.Lines())),
			slog.Any("err", err))
		return false
	}
	return true
}

func (s *Service) LoggedOut() {
	s.mu.Lock()
	s.signed = ""
	s.mu.Unlock()
}

// maxRounds bounds how often a sync is repeated because the local cart
// changed while the previous round was in flight.
const maxRounds = 3

// Reconcile submits the local lines and adopts the server cart. A local
// change that lands while the request is in flight is never overwritten:
// the round is repeated with the newer lines. On success the local store
// holds exactly the server cart; on failure it is left untouched and the
// error wraps ErrSyncFailure.
func (s *Service) Reconcile(ctx context.Context, actor identity.Actor) error {
	for range maxRounds {
		local, rev := s.store.Snapshot()
		items := make([]SyncItem, 0, len(local))
		for _, l := range local {
			items = append(items, SyncItem{ProductID: l.ProductID, Quantity: l.Quantity})
		}

		server, err := s.syncer.Sync(ctx, actor, items)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSyncFailure, err)
		}

		if !s.store.ReplaceIf(rev, server) {
			s.log.Debug("local cart changed during sync; retrying", slog.String("actor_id", actor.ID))
			continue
		}
		s.log.Info("cart reconciled",
			slog.String("actor_id", actor.ID),
			slog.Int("submitted", len(items)),
			slog.Int("lines", len(server)))
		return nil
	}
	return fmt.Errorf("%w: local cart kept changing", ErrSyncFailure)
}
