package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/org"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// Resolver turns an (item, kind) reference into a priced line item. The
// catalog service implements it.
type Resolver interface {
	Resolve(ctx context.Context, orgID, itemID uuid.UUID, kind pricing.Kind) (pricing.LineItem, error)
}

// OfferSource supplies the active offers a cart can apply. The offer service
// implements it.
type OfferSource interface {
	ActivePricingOffers(ctx context.Context, orgID uuid.UUID) ([]pricing.Offer, error)
}

// Handler exposes cart session endpoints.
type Handler struct {
	Registry *Registry
	Resolver Resolver
	Offers   OfferSource
	Options  pricing.Options
}

// View is the full cart representation returned to the client, priced
// against the current offers.
type View struct {
	ID               uuid.UUID          `json:"id"`
	State            State              `json:"state"`
	Items            []pricing.LineItem `json:"items"`
	SelectedOfferIDs []uuid.UUID        `json:"selected_offer_ids"`
	QuickDiscount    bool               `json:"quick_discount"`
	Summary          pricing.Summary    `json:"summary"`
}

func (h Handler) view(ctx context.Context, s *Session) (View, error) {
	offers, err := h.Offers.ActivePricingOffers(ctx, s.OrgID)
	if err != nil {
		return View{}, err
	}
	selected := s.SelectedOffers()
	ids := make([]uuid.UUID, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	return View{
		ID:               s.ID,
		State:            s.State(),
		Items:            s.Items(),
		SelectedOfferIDs: ids,
		QuickDiscount:    s.QuickDiscount(),
		Summary:          s.Quote(offers, h.Options),
	}, nil
}

func (h Handler) respond(w http.ResponseWriter, r *http.Request, s *Session, status int) {
	v, err := h.view(r.Context(), s)
	if err != nil {
		common.WriteError(w, err, nil)
		return
	}
	common.Data(w, status, v)
}

func (h Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid session id", nil)
		return nil, false
	}
	s, err := h.Registry.Get(org.MustFromContext(r.Context()), id)
	if err != nil {
		common.WriteError(w, err, nil)
		return nil, false
	}
	return s, true
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCheckoutPending), errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNotCheckingOut):
		common.JSONError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		common.WriteError(w, err, pricing.ErrInvalidInput)
	}
}

// Create handles POST /pos/sessions.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Registry.Create(org.MustFromContext(r.Context()))
	h.respond(w, r, s, http.StatusCreated)
}

// Get handles GET /pos/sessions/{sessionID}.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// Delete handles DELETE /pos/sessions/{sessionID}.
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid session id", nil)
		return
	}
	if err := h.Registry.Delete(org.MustFromContext(r.Context()), id); err != nil {
		common.WriteError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Kind     string    `json:"kind"`
	Quantity int       `json:"quantity"`
}

// AddItem handles POST /pos/sessions/{sessionID}/items.
func (h Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	item, err := h.Resolver.Resolve(r.Context(), s.OrgID, req.ItemID, pricing.Kind(req.Kind))
	if err != nil {
		common.WriteError(w, err, pricing.ErrInvalidInput)
		return
	}
	item.Quantity = req.Quantity
	if err := s.AddItem(item); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

type setQuantityRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Kind     string    `json:"kind"`
	Quantity int       `json:"quantity"`
}

// SetQuantity handles PUT /pos/sessions/{sessionID}/items. A quantity of
// zero or below removes the line.
func (h Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	key := pricing.Key{ItemID: req.ItemID, Kind: pricing.Kind(req.Kind)}
	if err := s.SetQuantity(key, req.Quantity); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// RemoveItem handles DELETE /pos/sessions/{sessionID}/items/{kind}/{itemID}.
func (h Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	key := pricing.Key{ItemID: itemID, Kind: pricing.Kind(chi.URLParam(r, "kind"))}
	if err := s.RemoveItem(key); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// ToggleOffer handles POST /pos/sessions/{sessionID}/offers/{offerID}.
func (h Handler) ToggleOffer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	offerID, err := uuid.Parse(chi.URLParam(r, "offerID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	if err := s.ToggleOffer(offerID); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

type quickDiscountRequest struct {
	Enabled bool `json:"enabled"`
}

// QuickDiscount handles POST /pos/sessions/{sessionID}/quick-discount.
func (h Handler) QuickDiscount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req quickDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := s.SetQuickDiscount(req.Enabled); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// Clear handles POST /pos/sessions/{sessionID}/clear.
func (h Handler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Clear(); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// BeginCheckout handles POST /pos/sessions/{sessionID}/checkout.
func (h Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.BeginCheckout(); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}

// CancelCheckout handles POST /pos/sessions/{sessionID}/checkout/cancel.
func (h Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.CancelCheckout(); err != nil {
		writeCartError(w, err)
		return
	}
	h.respond(w, r, s, http.StatusOK)
}
