// Package pricing implements the order pricing and discount-composition engine
// used by order entry. It is pure computation over in-memory values: no I/O,
// no clock, no failure modes beyond invalid input rejected at construction.
package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// quickDiscountPercent is the flat quick-discount toggle rate.
	quickDiscountPercent = decimal.NewFromInt(10)
)

// Scope records which part of the bill an offer was authored against. It is
// stored and surfaced but deliberately NOT consulted by the discount
// computation: the legacy system discounts the whole subtotal regardless of
// scope, and that behavior is preserved.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeProducts Scope = "products"
	ScopeCombos   Scope = "combos"
)

// Valid reports whether s is a known offer scope.
func (s Scope) Valid() bool {
	return s == ScopeAll || s == ScopeProducts || s == ScopeCombos
}

// Offer is a time-windowed percentage discount. Immutable during a single
// pricing computation.
type Offer struct {
	ID      uuid.UUID
	Name    string
	Percent decimal.Decimal
	Window  Window
	Scope   Scope
}

// NewOffer validates and constructs an offer value. Percent must be in [0, 100].
func NewOffer(id uuid.UUID, name string, percent decimal.Decimal, window Window, scope Scope) (Offer, error) {
	if id == uuid.Nil {
		return Offer{}, fmt.Errorf("offer id is required: %w", ErrInvalidInput)
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return Offer{}, fmt.Errorf("discount percent must be between 0 and 100: %w", ErrInvalidInput)
	}
	if err := window.Validate(); err != nil {
		return Offer{}, err
	}
	if !scope.Valid() {
		return Offer{}, fmt.Errorf("unknown offer scope %q: %w", scope, ErrInvalidInput)
	}
	return Offer{ID: id, Name: name, Percent: percent, Window: window, Scope: scope}, nil
}

// Summary aggregates the derived pricing components of a cart. It is
// recomputed on every mutation and never stored.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Options alters total composition.
//
// ClampTotal enables the hardened mode: discount capped at the subtotal and
// total floored at zero. The default (false) reproduces the legacy behavior
// exactly: stacked discounts may exceed the subtotal and drive the total
// negative.
type Options struct {
	ClampTotal bool
}

// Subtotal sums unitPrice × quantity over all line items at full precision.
// An empty cart yields zero.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Discount computes the total discount for the cart. Contributions are
// additive and each is computed independently against the full subtotal, not
// against a progressively reduced running total:
//
//   - the quick-discount toggle contributes subtotal × 10%
//   - every selected offer contributes subtotal × percent / 100
//
// Offers not present in selected are ignored. The result is not capped.
func Discount(items []LineItem, offers []Offer, selected map[uuid.UUID]bool, quickDiscount bool) decimal.Decimal {
	subtotal := Subtotal(items)
	discount := decimal.Zero
	if quickDiscount {
		discount = discount.Add(subtotal.Mul(quickDiscountPercent).Div(hundred))
	}
	for _, offer := range offers {
		if !selected[offer.ID] {
			continue
		}
		discount = discount.Add(subtotal.Mul(offer.Percent).Div(hundred))
	}
	return discount
}

// Compute derives the full pricing summary: total = subtotal - discount with
// no intermediate rounding. See Options for clamping semantics.
func Compute(items []LineItem, offers []Offer, selected map[uuid.UUID]bool, quickDiscount bool, opts Options) Summary {
	subtotal := Subtotal(items)
	discount := Discount(items, offers, selected, quickDiscount)
	if opts.ClampTotal && discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	total := subtotal.Sub(discount)
	if opts.ClampTotal && total.IsNegative() {
		total = decimal.Zero
	}
	return Summary{Subtotal: subtotal, Discount: discount, Total: total}
}
