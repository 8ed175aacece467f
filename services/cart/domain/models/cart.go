package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Line is one product in a user's cart, priced at the product's current price.
type Line struct {
	ProductID int64
	Name      string
	Image     string
	Brand     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the read model of a user's cart.
type Cart struct {
	UserID int64
	Lines  []Line
}

// Total sums the line subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount sums the line quantities.
func (c Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += int64(l.Quantity)
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ValidateQuantity checks an amount to add to a line.
func ValidateQuantity(q int) error {
	if q < MinQuantity || q > MaxQuantity {
		return fmt.Errorf("quantity must be between %d and %d, got %d", MinQuantity, MaxQuantity, q)
	}
	return nil
}

// ValidateNewQuantity checks the new quantity of an existing line. Zero is
// allowed and removes the line.
func ValidateNewQuantity(q int) error {
	if q == 0 {
		return nil
	}
	return ValidateQuantity(q)
}
