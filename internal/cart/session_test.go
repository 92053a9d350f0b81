package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustItem(t *testing.T, name, price string, qty int) pricing.LineItem {
	t.Helper()
	item, err := pricing.NewLineItem(uuid.New(), pricing.KindProduct, name, dec(price), qty)
	if err != nil {
		t.Fatalf("NewLineItem(%s): %v", name, err)
	}
	return item
}

func TestAddItemMergesOnKey(t *testing.T) {
	s := NewSession(uuid.New())
	item := mustItem(t, "Cappuccino", "4.50", 1)

	if err := s.AddItem(item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got := s.State(); got != StateBuilding {
		t.Fatalf("state = %s, want %s", got, StateBuilding)
	}

	again := item
	again.Quantity = 2
	if err := s.AddItem(again); err != nil {
		t.Fatalf("AddItem merge: %v", err)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", items[0].Quantity)
	}
}

func TestSameProductDifferentKindDoesNotMerge(t *testing.T) {
	s := NewSession(uuid.New())
	id := uuid.New()
	product, err := pricing.NewLineItem(id, pricing.KindProduct, "Espresso", dec("3.00"), 1)
	if err != nil {
		t.Fatal(err)
	}
	combo, err := pricing.NewLineItem(id, pricing.KindCombo, "Espresso Set", dec("7.50"), 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddItem(product); err != nil {
		t.Fatal(err)
	}
	if err := s.AddItem(combo); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Items()); got != 2 {
		t.Fatalf("len(items) = %d, want 2", got)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s := NewSession(uuid.New())
	item := mustItem(t, "Latte", "4.80", 2)
	if err := s.AddItem(item); err != nil {
		t.Fatal(err)
	}

	if err := s.SetQuantity(item.Key(), 0); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if got := len(s.Items()); got != 0 {
		t.Fatalf("len(items) = %d, want 0", got)
	}
	if got := s.State(); got != StateEmpty {
		t.Fatalf("state = %s, want %s", got, StateEmpty)
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	s := NewSession(uuid.New())
	err := s.SetQuantity(pricing.Key{ItemID: uuid.New(), Kind: pricing.KindProduct}, 2)
	if err == nil {
		t.Fatal("expected error for unknown line")
	}
}

func TestCheckoutLifecycle(t *testing.T) {
	s := NewSession(uuid.New())
	if err := s.BeginCheckout(); err != ErrEmptyCart {
		t.Fatalf("BeginCheckout on empty = %v, want ErrEmptyCart", err)
	}

	item := mustItem(t, "Mocha", "5.20", 1)
	if err := s.AddItem(item); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginCheckout(); err != nil {
		t.Fatalf("BeginCheckout: %v", err)
	}
	if got := s.State(); got != StateCheckoutPending {
		t.Fatalf("state = %s, want %s", got, StateCheckoutPending)
	}

	// Cart is frozen while checkout is pending.
	if err := s.AddItem(mustItem(t, "Espresso", "3.00", 1)); err != ErrCheckoutPending {
		t.Fatalf("AddItem during checkout = %v, want ErrCheckoutPending", err)
	}

	if err := s.CancelCheckout(); err != nil {
		t.Fatalf("CancelCheckout: %v", err)
	}
	if got := s.State(); got != StateBuilding {
		t.Fatalf("state after cancel = %s, want %s", got, StateBuilding)
	}
	if got := len(s.Items()); got != 1 {
		t.Fatalf("items survived cancel: len = %d, want 1", got)
	}

	if err := s.BeginCheckout(); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := s.State(); got != StateEmpty {
		t.Fatalf("state after complete = %s, want %s", got, StateEmpty)
	}
	if got := len(s.Items()); got != 0 {
		t.Fatalf("items after complete: len = %d, want 0", got)
	}
}

func TestCompleteWithoutCheckout(t *testing.T) {
	s := NewSession(uuid.New())
	if err := s.Complete(); err != ErrNotCheckingOut {
		t.Fatalf("Complete = %v, want ErrNotCheckingOut", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewSession(uuid.New())
	item := mustItem(t, "Americano", "3.50", 2)
	if err := s.AddItem(item); err != nil {
		t.Fatal(err)
	}
	offerID := uuid.New()
	if err := s.ToggleOffer(offerID); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuickDiscount(true); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()

	restored := NewSession(s.OrgID)
	if err := restored.LoadSnapshot(snap); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got := restored.State(); got != StateBuilding {
		t.Fatalf("state = %s, want %s", got, StateBuilding)
	}
	if got := len(restored.Items()); got != 1 {
		t.Fatalf("len(items) = %d, want 1", got)
	}
	if !restored.SelectedOffers()[offerID] {
		t.Fatal("selected offer lost in round trip")
	}
	if !restored.QuickDiscount() {
		t.Fatal("quick discount lost in round trip")
	}
}

func TestQuoteAppliesSelectedOffersAdditively(t *testing.T) {
	s := NewSession(uuid.New())
	item := mustItem(t, "Beans 1kg", "100.00", 1)
	if err := s.AddItem(item); err != nil {
		t.Fatal(err)
	}

	window := pricing.Window{StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "00:00", EndTime: "23:59"}
	offer, err := pricing.NewOffer(uuid.New(), "Ten Off", dec("10"), window, pricing.ScopeAll)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleOffer(offer.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuickDiscount(true); err != nil {
		t.Fatal(err)
	}

	summary := s.Quote([]pricing.Offer{offer}, pricing.Options{})
	if !summary.Discount.Equal(dec("20")) {
		t.Fatalf("discount = %s, want 20", summary.Discount)
	}
	if !summary.Total.Equal(dec("80")) {
		t.Fatalf("total = %s, want 80", summary.Total)
	}
}

func TestRegistryScopesByOrg(t *testing.T) {
	r := NewRegistry()
	orgA := uuid.New()
	orgB := uuid.New()
	s := r.Create(orgA)

	if _, err := r.Get(orgA, s.ID); err != nil {
		t.Fatalf("Get own org: %v", err)
	}
	if _, err := r.Get(orgB, s.ID); err == nil {
		t.Fatal("expected not found for foreign org")
	}
	if err := r.Delete(orgB, s.ID); err == nil {
		t.Fatal("expected not found deleting from foreign org")
	}
	if err := r.Delete(orgA, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}
