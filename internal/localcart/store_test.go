package localcart

import (
	"errors"
	"testing"

	"github.com/dwikikusuma/storefront-ops/internal/cart/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	saved [][]domain.CartLine
	err   error
}

func (p *recordingPersister) Save(lines []domain.CartLine) error {
	p.saved = append(p.saved, lines)
	return p.err
}

func (p *recordingPersister) Load() ([]domain.CartLine, error) { return nil, nil }

func mug() domain.CartLine {
	return domain.CartLine{ProductID: "A", UnitPrice: decimal.NewFromInt(10), Product: domain.ProductSnapshot{Name: "Mug", Currency: "IDR"}}
}

func TestAddSameProductKeepsOneLine(t *testing.T) {
	s, err := Open(nil, nil)
	require.NoError(t, err)

	want := 0
	for _, q := range []int{2, 1, 5, 3} {
		s.Add(mug(), q)
		want += q
	}

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, want, lines[0].Quantity)
	assert.Equal(t, want, s.Count())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(int64(want*10))))
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	s, _ := Open(nil, nil)
	s.Add(mug(), 2)
	s.SetQuantity("A", 0)
	assert.Empty(t, s.Lines())

	s.Add(mug(), 2)
	s.SetQuantity("A", -7)
	assert.Empty(t, s.Lines())
}

func TestRemoveAndClear(t *testing.T) {
	s, _ := Open(nil, nil)
	s.Add(mug(), 1)
	s.Add(domain.CartLine{ProductID: "B", UnitPrice: decimal.NewFromInt(1)}, 1)

	s.Remove("missing")
	assert.Len(t, s.Lines(), 2)

	s.Remove("A")
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "B", s.Lines()[0].ProductID)

	s.Clear()
	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Count())
}

func TestEveryMutationPersistsFullList(t *testing.T) {
	p := &recordingPersister{}
	s, err := Open(p, nil)
	require.NoError(t, err)

	s.Add(mug(), 1)
	s.Add(mug(), 1)
	s.SetQuantity("A", 4)
	s.Clear()

	require.Len(t, p.saved, 4)
	assert.Equal(t, 2, p.saved[1][0].Quantity)
	assert.Equal(t, 4, p.saved[2][0].Quantity)
	assert.Empty(t, p.saved[3])
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	s, err := Open(p, nil)
	require.NoError(t, err)

	s.Add(mug(), 2)
	assert.Equal(t, 2, s.Count())
}

func TestLinesIsACopy(t *testing.T) {
	s, _ := Open(nil, nil)
	s.Add(mug(), 1)

	lines := s.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, s.Count())
}

func TestReplaceIfDetectsMutation(t *testing.T) {
	s, _ := Open(nil, nil)
	s.Add(mug(), 1)

	_, rev := s.Snapshot()
	s.Add(mug(), 1)
	assert.False(t, s.ReplaceIf(rev, nil), "stale revision")
	assert.Equal(t, 2, s.Count())

	_, rev = s.Snapshot()
	assert.True(t, s.ReplaceIf(rev, nil))
	assert.Equal(t, 0, s.Count())
}

func TestPebbleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	pf, err := OpenPebble(dir)
	require.NoError(t, err)
	s, err := Open(pf, nil)
	require.NoError(t, err)
	s.Add(mug(), 2)
	s.Add(domain.CartLine{ProductID: "B", UnitPrice: decimal.RequireFromString("2.5")}, 1)
	require.NoError(t, pf.Close())

	pf, err = OpenPebble(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pf.Close() })
	s, err = Open(pf, nil)
	require.NoError(t, err)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ProductID)
	assert.Equal(t, "Mug", lines[0].Product.Name)
	assert.True(t, s.Total().Equal(decimal.RequireFromString("22.5")))

	s.Clear()
	got, err := pf.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
