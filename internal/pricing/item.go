package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a line item or offer fails boundary validation.
var ErrInvalidInput = errors.New("invalid input")

// Kind discriminates the two sellable units on a bill.
type Kind string

const (
	// KindProduct is a single menu product.
	KindProduct Kind = "product"
	// KindCombo is a bundled sale unit composed of multiple products, priced as one line.
	KindCombo Kind = "combo"
)

// Valid reports whether k is a known line-item kind.
func (k Kind) Valid() bool {
	return k == KindProduct || k == KindCombo
}

// LineItem is one product or combo entry in a cart.
type LineItem struct {
	ItemID    uuid.UUID
	Kind      Kind
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewLineItem validates and constructs a line item. Quantity must be at least 1
// and the unit price non-negative; violations are rejected here rather than
// propagated into totals.
func NewLineItem(itemID uuid.UUID, kind Kind, name string, unitPrice decimal.Decimal, quantity int) (LineItem, error) {
	if itemID == uuid.Nil {
		return LineItem{}, fmt.Errorf("item id is required: %w", ErrInvalidInput)
	}
	if !kind.Valid() {
		return LineItem{}, fmt.Errorf("unknown item kind %q: %w", kind, ErrInvalidInput)
	}
	if unitPrice.IsNegative() {
		return LineItem{}, fmt.Errorf("unit price must not be negative: %w", ErrInvalidInput)
	}
	if quantity < 1 {
		return LineItem{}, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return LineItem{ItemID: itemID, Kind: kind, Name: name, UnitPrice: unitPrice, Quantity: quantity}, nil
}

// Key identifies the merge slot of a line item: no two rows in a cart may share it.
type Key struct {
	ItemID uuid.UUID
	Kind   Kind
}

// Key returns the merge key of the line item.
func (li LineItem) Key() Key {
	return Key{ItemID: li.ItemID, Kind: li.Kind}
}

// LineTotal returns unitPrice × quantity at full precision.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
