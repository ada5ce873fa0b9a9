package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price int64) CartLine {
	return CartLine{ProductID: id, UnitPrice: decimal.NewFromInt(price), Product: ProductSnapshot{Name: id}}
}

func TestAddLineAccumulates(t *testing.T) {
	var lines []CartLine
	for _, q := range []int{1, 3, 2} {
		lines = AddLine(lines, line("A", 10), q)
	}
	lines = AddLine(lines, line("B", 5), 1)

	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ProductID, "insertion order kept")
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAddLineClampsQuantity(t *testing.T) {
	lines := AddLine(nil, line("A", 10), 0)
	lines = AddLine(lines, line("A", 10), -4)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddLineDoesNotAliasInput(t *testing.T) {
	orig := []CartLine{{ProductID: "A", Quantity: 1}}
	_ = AddLine(orig, CartLine{ProductID: "A"}, 5)
	assert.Equal(t, 1, orig[0].Quantity)
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -100} {
		lines := AddLine(nil, line("A", 10), 2)
		lines = SetQuantity(lines, "A", q)
		_, ok := Find(lines, "A")
		assert.False(t, ok, "qty %d", q)
	}
}

func TestSetQuantityReplaces(t *testing.T) {
	lines := AddLine(nil, line("A", 10), 2)
	lines = SetQuantity(lines, "A", 7)
	lines = SetQuantity(lines, "missing", 3)

	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestTotalsAreDerived(t *testing.T) {
	lines := AddLine(nil, line("A", 10), 2)
	lines = AddLine(lines, CartLine{ProductID: "B", UnitPrice: decimal.RequireFromString("2.5")}, 3)

	assert.True(t, Total(lines).Equal(decimal.RequireFromString("27.5")))
	assert.Equal(t, 5, Count(lines))

	c := Cart{Lines: lines}
	assert.True(t, c.Total().Equal(Total(lines)))
	assert.Equal(t, 5, c.Count())

	assert.True(t, Total(nil).IsZero())
	assert.Zero(t, Count(nil))
}
