package domain

import "github.com/shopspring/decimal"

// The functions below never modify their input slice; they return a new one.

// AddLine accumulates qty onto the line for line.ProductID, or appends a new
// line at the end. qty below 1 is treated as 1.
func AddLine(lines []CartLine, line CartLine, qty int) []CartLine {
	if qty < 1 {
		qty = 1
	}
	out := Clone(lines)
	for i := range out {
		if out[i].ProductID == line.ProductID {
			out[i].Quantity += qty
			return out
		}
	}
	line.Quantity = qty
	return append(out, line)
}

// SetQuantity replaces the quantity of productID. A quantity of zero or less
// removes the line. Unknown products are left alone.
func SetQuantity(lines []CartLine, productID string, qty int) []CartLine {
	if qty <= 0 {
		return RemoveLine(lines, productID)
	}
	out := Clone(lines)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = qty
			break
		}
	}
	return out
}

func RemoveLine(lines []CartLine, productID string) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

func Find(lines []CartLine, productID string) (CartLine, bool) {
	for _, l := range lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

func Clone(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func Count(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
