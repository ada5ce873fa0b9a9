package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const syncLookupLimit = 8

type Service struct {
	repo     CartRepo
	products ProductLookup
	rec      Recorder
}

func NewService(repo CartRepo, products ProductLookup, rec Recorder) *Service {
	return &Service{
		repo:     repo,
		products: products,
		rec:      rec,
	}
}

// GetCart returns the user's active cart, creating an empty one on first use.
func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Cart{}, ErrInvalidInput
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	p, err := s.lookup(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	if quantity < 1 {
		quantity = 1
	}
	if err := s.repo.AddLine(ctx, cart.ID, lineFor(p, quantity)); err != nil {
		return domain.Cart{}, err
	}
	return s.repo.Get(ctx, userID)
}

// SetItemQuantity replaces the quantity of a line already in the cart.
// A quantity of zero or less removes the line.
func (s *Service) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	if quantity <= 0 {
		err = s.repo.RemoveLine(ctx, cart.ID, productID)
	} else {
		if _, ok := domain.Find(cart.Lines, productID); !ok {
			return domain.Cart{}, fmt.Errorf("cart line %s: %w", productID, ErrNotFound)
		}
		err = s.repo.SetQuantity(ctx, cart.ID, productID, quantity)
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		return domain.Cart{}, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

type SyncItem struct {
	ProductID string
	Quantity  int
}

// Sync merges a client cart into the server cart. For every product in items
// the submitted quantity replaces the server quantity; products not named in
// items are left as they are. Duplicate products in one batch resolve to the
// last occurrence. A quantity of zero or less removes the line.
func (s *Service) Sync(ctx context.Context, userID string, items []SyncItem) (domain.Cart, error) {
	cart, err := s.sync(ctx, userID, items)
	s.record(err)
	return cart, err
}

func (s *Service) sync(ctx context.Context, userID string, items []SyncItem) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	order := make([]string, 0, len(items))
	want := make(map[string]int, len(items))
	for _, it := range items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return domain.Cart{}, fmt.Errorf("sync item without product: %w", ErrInvalidInput)
		}
		if _, seen := want[pid]; !seen {
			order = append(order, pid)
		}
		want[pid] = it.Quantity
	}

	lines := make([]domain.CartLine, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncLookupLimit)

	for idx, pid := range order {
		qty := want[pid]
		if existing, ok := domain.Find(cart.Lines, pid); ok || qty <= 0 {
			existing.ProductID = pid
			existing.Quantity = qty
			lines[idx] = existing
			continue
		}
		g.Go(func() error {
			p, err := s.lookup(gctx, pid)
			if err != nil {
				return err
			}
			lines[idx] = lineFor(p, qty)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Cart{}, err
	}

	if len(lines) > 0 {
		if err := s.repo.UpsertQuantities(ctx, cart.ID, lines); err != nil {
			return domain.Cart{}, err
		}
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) record(err error) {
	if s.rec == nil {
		return
	}
	if err != nil {
		s.rec.CartSynced("failed")
		return
	}
	s.rec.CartSynced("ok")
}

func (s *Service) lookup(ctx context.Context, productID string) (Product, error) {
	if strings.TrimSpace(productID) == "" {
		return Product{}, ErrInvalidInput
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, fmt.Errorf("product %s: %w", productID, err)
	}
	return p, nil
}

func lineFor(p Product, quantity int) domain.CartLine {
	return domain.CartLine{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Product: domain.ProductSnapshot{
			Name:     p.Name,
			ImageURL: p.ImageURL,
			Currency: p.Currency,
		},
	}
}
