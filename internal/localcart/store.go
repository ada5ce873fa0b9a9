// Package localcart is the client-side cart. It works without a server and
// keeps its lines in a local durable store between runs.
package localcart

import (
	"log/slog"
	"sync"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
	"github.com/shopspring/decimal"
)

// Persister saves and restores the full line list.
type Persister interface {
	Save(lines []domain.CartLine) error
	Load() ([]domain.CartLine, error)
}

type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	rev     uint64 // bumped on every mutation
	persist Persister
	log     *slog.Logger
}

// Open restores the lines held by p. A nil p keeps the cart in memory only.
func Open(p Persister, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{persist: p, log: log}
	if p != nil {
		lines, err := p.Load()
		if err != nil {
			return nil, err
		}
		s.lines = lines
	}
	return s, nil
}

func (s *Store) Add(line domain.CartLine, quantity int) {
	s.apply(func(lines []domain.CartLine) []domain.CartLine {
		return domain.AddLine(lines, line, quantity)
	})
}

func (s *Store) Remove(productID string) {
	s.apply(func(lines []domain.CartLine) []domain.CartLine {
		return domain.RemoveLine(lines, productID)
	})
}

// SetQuantity replaces the quantity; zero or negative removes the line.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.apply(func(lines []domain.CartLine) []domain.CartLine {
		return domain.SetQuantity(lines, productID, quantity)
	})
}

func (s *Store) Clear() {
	s.apply(func([]domain.CartLine) []domain.CartLine { return nil })
}

// Replace swaps the whole content, e.g. for the authoritative server cart.
func (s *Store) Replace(lines []domain.CartLine) {
	next := domain.Clone(lines)
	s.apply(func([]domain.CartLine) []domain.CartLine { return next })
}

// Snapshot returns the lines together with the revision they belong to.
func (s *Store) Snapshot() ([]domain.CartLine, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Clone(s.lines), s.rev
}

// ReplaceIf swaps the whole content only when no mutation happened since
// revision rev was read. It reports whether the swap took place.
func (s *Store) ReplaceIf(rev uint64, lines []domain.CartLine) bool {
	next := domain.Clone(lines)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rev != rev {
		return false
	}
	s.mutate(func([]domain.CartLine) []domain.CartLine { return next })
	return true
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Clone(s.lines)
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.lines)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Count(s.lines)
}

// apply mutates memory first; a failed save is logged and the in-memory
// change stands. Saves run under the lock so they land in mutation order.
func (s *Store) apply(fn func([]domain.CartLine) []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutate(fn)
}

// mutate requires s.mu.
func (s *Store) mutate(fn func([]domain.CartLine) []domain.CartLine) {
	s.lines = fn(s.lines)
	s.rev++

	if s.persist == nil {
		return
	}
	if err := s.persist.Save(domain.Clone(s.lines)); err != nil {
		s.log.Warn("local cart persist failed", slog.Any("err", err), slog.Int("lines", len(s.lines)))
	}
}
