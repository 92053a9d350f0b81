package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/cart"
	"github.com/Hitarth2510/thrive-backend/internal/events"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

type stubOffers struct {
	offers []pricing.Offer
}

func (s stubOffers) ActivePricingOffers(context.Context, uuid.UUID) ([]pricing.Offer, error) {
	return s.offers, nil
}

type recordingReceipts struct {
	sales []Sale
}

func (r *recordingReceipts) EnqueueSaleReceipt(_ context.Context, sale Sale) error {
	r.sales = append(r.sales, sale)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCheckoutFixture(t *testing.T, offers []pricing.Offer) (*Service, *MemoryStore, *events.MemoryStore, *recordingReceipts) {
	t.Helper()
	store := NewMemoryStore()
	eventStore := events.NewMemoryStore()
	receipts := &recordingReceipts{}
	svc := NewService(store, stubOffers{offers: offers}, &events.Bus{Store: eventStore}, receipts, pricing.Options{}, zerolog.Nop())
	return svc, store, eventStore, receipts
}

func buildingSession(t *testing.T, items ...pricing.LineItem) *cart.Session {
	t.Helper()
	s := cart.NewSession(uuid.New())
	for _, it := range items {
		require.NoError(t, s.AddItem(it))
	}
	return s
}

func line(t *testing.T, name, price string, qty int) pricing.LineItem {
	t.Helper()
	item, err := pricing.NewLineItem(uuid.New(), pricing.KindProduct, name, dec(price), qty)
	require.NoError(t, err)
	return item
}

func TestCheckoutCommitsSaleAndResetsSession(t *testing.T) {
	window := pricing.Window{StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "00:00", EndTime: "23:59"}
	offer, err := pricing.NewOffer(uuid.New(), "Happy Hour", dec("10"), window, pricing.ScopeAll)
	require.NoError(t, err)

	svc, store, eventStore, receipts := newCheckoutFixture(t, []pricing.Offer{offer})
	session := buildingSession(t,
		line(t, "Cappuccino", "4.50", 2),
		line(t, "Espresso", "3.00", 1),
	)
	require.NoError(t, session.ToggleOffer(offer.ID))
	require.NoError(t, session.BeginCheckout())

	cashier := uuid.New()
	sale, err := svc.Checkout(context.Background(), session, CheckoutRequest{
		CustomerName:  "Ada",
		PaymentMethod: PaymentCard,
	}, cashier)
	require.NoError(t, err)

	// Subtotal 12.00, one 10% offer selected.
	require.True(t, sale.Subtotal.Equal(dec("12.00")), "subtotal = %s", sale.Subtotal)
	require.True(t, sale.Discount.Equal(dec("1.2")), "discount = %s", sale.Discount)
	require.True(t, sale.Total.Equal(dec("10.8")), "total = %s", sale.Total)
	require.Len(t, sale.Items, 2)
	require.Equal(t, cashier, sale.CashierID)

	stored, err := store.GetSale(context.Background(), session.OrgID, sale.ID)
	require.NoError(t, err)
	require.Equal(t, sale.ID, stored.ID)

	recorded := eventStore.Events()
	require.Len(t, recorded, 1)
	require.Equal(t, events.TopicSaleRecorded, recorded[0].Topic)

	require.Len(t, receipts.sales, 1)
	require.Equal(t, cart.StateEmpty, session.State())
}

func TestCheckoutRequiresPendingState(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture(t, nil)
	session := buildingSession(t, line(t, "Latte", "4.80", 1))

	_, err := svc.Checkout(context.Background(), session, CheckoutRequest{
		CustomerName:  "Ada",
		PaymentMethod: PaymentCash,
	}, uuid.New())
	require.Error(t, err)
}

func TestCheckoutValidatesInput(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture(t, nil)
	session := buildingSession(t, line(t, "Latte", "4.80", 1))
	require.NoError(t, session.BeginCheckout())

	_, err := svc.Checkout(context.Background(), session, CheckoutRequest{
		CustomerName:  "",
		PaymentMethod: PaymentCash,
	}, uuid.New())
	require.Error(t, err)

	_, err = svc.Checkout(context.Background(), session, CheckoutRequest{
		CustomerName:  "Ada",
		PaymentMethod: "cheque",
	}, uuid.New())
	require.Error(t, err)

	_, total, err := store.ListSales(context.Background(), session.OrgID, 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestDraftLifecycle(t *testing.T) {
	svc, _, eventStore, _ := newCheckoutFixture(t, nil)
	session := buildingSession(t, line(t, "Mocha", "5.20", 2))
	ctx := context.Background()

	draft, err := svc.SaveDraft(ctx, session, "table 4")
	require.NoError(t, err)
	require.Equal(t, "table 4", draft.Name)

	recorded := eventStore.Events()
	require.Len(t, recorded, 1)
	require.Equal(t, events.TopicDraftSaved, recorded[0].Topic)

	drafts, err := svc.ListDrafts(ctx, session.OrgID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	restored := cart.NewSession(session.OrgID)
	require.NoError(t, svc.RestoreDraft(ctx, restored, draft.ID))
	require.Len(t, restored.Items(), 1)
	require.Equal(t, 2, restored.Items()[0].Quantity)

	require.NoError(t, svc.DeleteDraft(ctx, session.OrgID, draft.ID))
	_, err = svc.ListDrafts(ctx, session.OrgID)
	require.NoError(t, err)
	require.Error(t, svc.RestoreDraft(ctx, restored, draft.ID))
}

func TestSaveDraftRejectsEmptyCart(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture(t, nil)
	session := cart.NewSession(uuid.New())
	_, err := svc.SaveDraft(context.Background(), session, "empty")
	require.Error(t, err)
}

func TestListSalesPaginates(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture(t, nil)
	ctx := context.Background()
	orgID := uuid.New()

	for i := 0; i < 5; i++ {
		session := cart.NewSession(orgID)
		require.NoError(t, session.AddItem(line(t, "Espresso", "3.00", 1)))
		require.NoError(t, session.BeginCheckout())
		_, err := svc.Checkout(ctx, session, CheckoutRequest{
			CustomerName:  "Walk-in",
			PaymentMethod: PaymentCash,
		}, uuid.New())
		require.NoError(t, err)
	}

	sales, pagination, err := svc.ListSales(ctx, orgID, 1, 2)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	require.Equal(t, 5, pagination.TotalItems)

	sales, _, err = svc.ListSales(ctx, orgID, 3, 2)
	require.NoError(t, err)
	require.Len(t, sales, 1)
}
