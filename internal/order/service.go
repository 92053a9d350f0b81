package order

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hitarth2510/thrive-backend/internal/cart"
	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/events"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// ReceiptEnqueuer hands completed sales to the background receipt worker.
type ReceiptEnqueuer interface {
	EnqueueSaleReceipt(ctx context.Context, sale Sale) error
}

// CheckoutRequest carries the customer and payment details confirmed at the
// counter.
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// Service finalises checkouts and manages drafts.
type Service struct {
	store    Store
	offers   cart.OfferSource
	bus      *events.Bus
	receipts ReceiptEnqueuer
	opts     pricing.Options
	logger   zerolog.Logger
}

func NewService(store Store, offers cart.OfferSource, bus *events.Bus, receipts ReceiptEnqueuer, opts pricing.Options, logger zerolog.Logger) *Service {
	return &Service{store: store, offers: offers, bus: bus, receipts: receipts, opts: opts, logger: logger}
}

// Checkout turns a frozen cart into a persisted sale. The summary is
// recomputed server-side at commit time; client-supplied totals are never
// trusted. On success the session resets for the next order.
func (s *Service) Checkout(ctx context.Context, session *cart.Session, req CheckoutRequest, cashierID uuid.UUID) (Sale, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return Sale{}, common.NewAppError("VALIDATION_ERROR", "customer name is required", http.StatusBadRequest, nil)
	}
	if !ValidPaymentMethod(req.PaymentMethod) {
		return Sale{}, common.NewAppError("VALIDATION_ERROR", "payment method must be cash, card, or upi", http.StatusBadRequest, nil)
	}
	if session.State() != cart.StateCheckoutPending {
		return Sale{}, common.NewAppError("CONFLICT", "checkout has not been started for this cart", http.StatusConflict, nil)
	}

	offers, err := s.offers.ActivePricingOffers(ctx, session.OrgID)
	if err != nil {
		return Sale{}, fmt.Errorf("load offers: %w", err)
	}
	summary := session.Quote(offers, s.opts)

	lines := session.Items()
	items := make([]SaleItem, 0, len(lines))
	for _, li := range lines {
		items = append(items, SaleItem{
			ItemID:    li.ItemID,
			Kind:      string(li.Kind),
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			LineTotal: li.LineTotal(),
		})
	}

	sale, err := s.store.CommitSale(ctx, Sale{
		OrgID:         session.OrgID,
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		PaymentMethod: req.PaymentMethod,
		Subtotal:      summary.Subtotal,
		Discount:      summary.Discount,
		Total:         summary.Total,
		Items:         items,
		CashierID:     cashierID,
	})
	if err != nil {
		return Sale{}, fmt.Errorf("commit sale: %w", err)
	}

	s.emitSale(ctx, sale)
	if s.receipts != nil {
		if err := s.receipts.EnqueueSaleReceipt(ctx, sale); err != nil {
			s.logger.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("enqueue receipt failed")
		}
	}

	if err := session.Complete(); err != nil {
		// The sale is already committed; a stale session state is logged,
		// not surfaced to the customer.
		s.logger.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("complete session after sale failed")
	}
	return sale, nil
}

func (s *Service) emitSale(ctx context.Context, sale Sale) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Emit(ctx, events.TopicSaleRecorded, sale.ID, map[string]any{
		"org_id":         sale.OrgID,
		"total":          sale.Total,
		"discount":       sale.Discount,
		"payment_method": sale.PaymentMethod,
	}); err != nil {
		s.logger.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("emit sale.recorded failed")
	}
}

// SaveDraft parks the current cart under a name.
func (s *Service) SaveDraft(ctx context.Context, session *cart.Session, name string) (Draft, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Draft{}, common.NewAppError("VALIDATION_ERROR", "draft name is required", http.StatusBadRequest, nil)
	}
	snap := session.Snapshot()
	if len(snap.Items) == 0 {
		return Draft{}, common.NewAppError("VALIDATION_ERROR", "cannot save an empty cart as a draft", http.StatusBadRequest, nil)
	}
	draft, err := s.store.SaveDraft(ctx, Draft{OrgID: session.OrgID, Name: name, Snapshot: snap})
	if err != nil {
		return Draft{}, fmt.Errorf("save draft: %w", err)
	}
	if s.bus != nil {
		if _, err := s.bus.Emit(ctx, events.TopicDraftSaved, draft.ID, map[string]any{
			"org_id": draft.OrgID,
			"name":   draft.Name,
		}); err != nil {
			s.logger.Warn().Err(err).Str("draft_id", draft.ID.String()).Msg("emit draft.saved failed")
		}
	}
	return draft, nil
}

// ListDrafts returns the org's parked carts, newest first.
func (s *Service) ListDrafts(ctx context.Context, orgID uuid.UUID) ([]Draft, error) {
	return s.store.ListDrafts(ctx, orgID)
}

// RestoreDraft loads a parked cart into the session. The draft remains until
// explicitly deleted.
func (s *Service) RestoreDraft(ctx context.Context, session *cart.Session, draftID uuid.UUID) error {
	draft, err := s.store.GetDraft(ctx, session.OrgID, draftID)
	if err != nil {
		return err
	}
	return session.LoadSnapshot(draft.Snapshot)
}

// DeleteDraft discards a parked cart.
func (s *Service) DeleteDraft(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.DeleteDraft(ctx, orgID, id)
}

// ListSales returns completed sales, newest first, with pagination metadata.
func (s *Service) ListSales(ctx context.Context, orgID uuid.UUID, page, perPage int) ([]Sale, common.Pagination, error) {
	sales, total, err := s.store.ListSales(ctx, orgID, page, perPage)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return sales, common.Pagination{Page: page, PerPage: perPage, TotalItems: total}, nil
}

// GetSale returns one sale with its lines.
func (s *Service) GetSale(ctx context.Context, orgID, id uuid.UUID) (Sale, error) {
	return s.store.GetSale(ctx, orgID, id)
}

// SalesBetween exposes range queries for reporting.
func (s *Service) SalesBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Sale, error) {
	return s.store.ListSalesBetween(ctx, orgID, from, to)
}
