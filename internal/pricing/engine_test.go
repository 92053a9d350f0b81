package pricing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustItem(t *testing.T, kind Kind, price string, qty int) LineItem {
	t.Helper()
	it, err := NewLineItem(uuid.New(), kind, "item", dec(price), qty)
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	return it
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestSubtotalEmptyCart(t *testing.T) {
	if got := Subtotal(nil); !got.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", got)
	}
}

func TestSubtotalIdenticalItems(t *testing.T) {
	items := []LineItem{
		mustItem(t, KindProduct, "4.50", 3),
		mustItem(t, KindProduct, "4.50", 3),
		mustItem(t, KindProduct, "4.50", 3),
	}
	if got, want := Subtotal(items), dec("40.50"); !got.Equal(want) {
		t.Fatalf("subtotal = %s, want %s", got, want)
	}
}

func TestSubtotalNoIntermediateRounding(t *testing.T) {
	items := []LineItem{
		mustItem(t, KindProduct, "4.50", 2),
		mustItem(t, KindProduct, "3.00", 1),
	}
	if got, want := Subtotal(items), dec("12.00"); !got.Equal(want) {
		t.Fatalf("subtotal = %s, want %s", got, want)
	}
}

func TestDiscountAdditiveNotCompounding(t *testing.T) {
	items := []LineItem{mustItem(t, KindProduct, "100.00", 1)}
	offer, err := NewOffer(uuid.New(), "ten off", dec("10"), validWindow(), ScopeAll)
	if err != nil {
		t.Fatalf("NewOffer: %v", err)
	}
	selected := map[uuid.UUID]bool{offer.ID: true}

	// Quick discount plus a 10% offer must yield exactly 20, not the 19 that
	// compounding would give.
	got := Discount(items, []Offer{offer}, selected, true)
	if want := dec("20"); !got.Equal(want) {
		t.Fatalf("discount = %s, want %s", got, want)
	}
}

func TestDiscountIgnoresUnselectedOffers(t *testing.T) {
	items := []LineItem{mustItem(t, KindProduct, "50.00", 2)}
	offer, _ := NewOffer(uuid.New(), "unused", dec("25"), validWindow(), ScopeAll)
	got := Discount(items, []Offer{offer}, nil, false)
	if !got.IsZero() {
		t.Fatalf("expected zero discount, got %s", got)
	}
}

func TestDiscountIgnoresScope(t *testing.T) {
	// A products-scoped offer still discounts the full subtotal, combos
	// included. Latent defect in the legacy system, preserved on purpose.
	items := []LineItem{
		mustItem(t, KindProduct, "10.00", 1),
		mustItem(t, KindCombo, "10.00", 1),
	}
	offer, _ := NewOffer(uuid.New(), "products only", dec("50"), validWindow(), ScopeProducts)
	got := Discount(items, []Offer{offer}, map[uuid.UUID]bool{offer.ID: true}, false)
	if want := dec("10"); !got.Equal(want) {
		t.Fatalf("discount = %s, want %s", got, want)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	cappuccino := mustItem(t, KindProduct, "4.50", 2)
	latte := mustItem(t, KindProduct, "4.80", 1)
	offer, _ := NewOffer(uuid.New(), "happy hour", dec("15"), validWindow(), ScopeAll)

	summary := Compute(
		[]LineItem{cappuccino, latte},
		[]Offer{offer},
		map[uuid.UUID]bool{offer.ID: true},
		true,
		Options{},
	)

	if want := dec("13.80"); !summary.Subtotal.Equal(want) {
		t.Fatalf("subtotal = %s, want %s", summary.Subtotal, want)
	}
	// 1.38 quick + 2.07 offer
	if want := dec("3.45"); !summary.Discount.Equal(want) {
		t.Fatalf("discount = %s, want %s", summary.Discount, want)
	}
	if want := dec("10.35"); !summary.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", summary.Total, want)
	}
}

func TestComputeLegacyAllowsNegativeTotal(t *testing.T) {
	items := []LineItem{mustItem(t, KindProduct, "10.00", 1)}
	a, _ := NewOffer(uuid.New(), "a", dec("80"), validWindow(), ScopeAll)
	b, _ := NewOffer(uuid.New(), "b", dec("90"), validWindow(), ScopeAll)
	selected := map[uuid.UUID]bool{a.ID: true, b.ID: true}

	summary := Compute(items, []Offer{a, b}, selected, false, Options{})
	if want := dec("17"); !summary.Discount.Equal(want) {
		t.Fatalf("discount = %s, want %s", summary.Discount, want)
	}
	if want := dec("-7"); !summary.Total.Equal(want) {
		t.Fatalf("legacy total = %s, want %s", summary.Total, want)
	}
}

func TestComputeClampedFloorsAtZero(t *testing.T) {
	items := []LineItem{mustItem(t, KindProduct, "10.00", 1)}
	a, _ := NewOffer(uuid.New(), "a", dec("80"), validWindow(), ScopeAll)
	b, _ := NewOffer(uuid.New(), "b", dec("90"), validWindow(), ScopeAll)
	selected := map[uuid.UUID]bool{a.ID: true, b.ID: true}

	summary := Compute(items, []Offer{a, b}, selected, false, Options{ClampTotal: true})
	if !summary.Discount.Equal(dec("10")) {
		t.Fatalf("clamped discount = %s, want 10", summary.Discount)
	}
	if !summary.Total.IsZero() {
		t.Fatalf("clamped total = %s, want 0", summary.Total)
	}
}

func TestNewLineItemRejectsInvalidInput(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name  string
		id    uuid.UUID
		kind  Kind
		price string
		qty   int
	}{
		{"negative price", id, KindProduct, "-1.00", 1},
		{"zero quantity", id, KindProduct, "1.00", 0},
		{"negative quantity", id, KindProduct, "1.00", -2},
		{"bad kind", id, Kind("bundle"), "1.00", 1},
		{"nil id", uuid.Nil, KindProduct, "1.00", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLineItem(tc.id, tc.kind, "x", dec(tc.price), tc.qty)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNewOfferRejectsMalformedPercent(t *testing.T) {
	for _, percent := range []string{"-5", "101"} {
		if _, err := NewOffer(uuid.New(), "bad", dec(percent), validWindow(), ScopeAll); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("percent %s: expected ErrInvalidInput, got %v", percent, err)
		}
	}
}

func validWindow() Window {
	return Window{StartDate: "2024-01-01", EndDate: "2024-12-31", StartTime: "00:00", EndTime: "23:59"}
}
