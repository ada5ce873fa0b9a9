package localcart

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
)

var linesKey = []byte("cart/lines")

// PebbleFile persists the cart lines as one JSON value in a Pebble database.
type PebbleFile struct {
	db *pebble.DB
}

func OpenPebble(dir string) (*PebbleFile, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleFile{db: d}, nil
}

func (p *PebbleFile) Close() error { return p.db.Close() }

func (p *PebbleFile) Save(lines []domain.CartLine) error {
	if len(lines) == 0 {
		return p.db.Delete(linesKey, pebble.Sync)
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	return p.db.Set(linesKey, b, pebble.Sync)
}

func (p *PebbleFile) Load() ([]domain.CartLine, error) {
	v, closer, err := p.db.Get(linesKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var lines []domain.CartLine
	if err := json.Unmarshal(v, &lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	return lines, nil
}
