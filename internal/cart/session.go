// Package cart holds the in-progress order a cashier is building. Sessions
// live in memory; drafts and completed sales are persisted by the order
// package.
package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// State is the lifecycle position of a session.
type State string

const (
	StateEmpty           State = "empty"
	StateBuilding        State = "building"
	StateCheckoutPending State = "checkout_pending"
)

var (
	// ErrCheckoutPending is returned when the cart is mutated while a
	// checkout is in flight.
	ErrCheckoutPending = errors.New("cart: checkout in progress")
	// ErrEmptyCart is returned when checkout is started on an empty cart.
	ErrEmptyCart = errors.New("cart: cart is empty")
	// ErrNotCheckingOut is returned when completing or cancelling a
	// checkout that was never started.
	ErrNotCheckingOut = errors.New("cart: no checkout in progress")
)

// Session is one cashier's in-progress cart. All methods are safe for
// concurrent use.
type Session struct {
	ID    uuid.UUID
	OrgID uuid.UUID

	mu            sync.Mutex
	items         []pricing.LineItem
	selected      map[uuid.UUID]bool
	quickDiscount bool
	state         State
	updatedAt     time.Time
	now           func() time.Time
}

// Snapshot is the serialisable view of a session, used for drafts and for
// restoring them.
type Snapshot struct {
	Items            []pricing.LineItem `json:"items"`
	SelectedOfferIDs []uuid.UUID        `json:"selected_offer_ids"`
	QuickDiscount    bool               `json:"quick_discount"`
}

// NewSession constructs an empty session for the given restaurant.
func NewSession(orgID uuid.UUID) *Session {
	return &Session{
		ID:       uuid.New(),
		OrgID:    orgID,
		selected: make(map[uuid.UUID]bool),
		state:    StateEmpty,
		now:      time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (s *Session) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Session) touch() {
	s.updatedAt = s.now()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) guardMutable() error {
	if s.state == StateCheckoutPending {
		return ErrCheckoutPending
	}
	return nil
}

// AddItem merges the given line into the cart. Lines are keyed by
// (item id, kind): adding an existing key increases its quantity.
func (s *Session) AddItem(item pricing.LineItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", pricing.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	key := item.Key()
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity += item.Quantity
			s.touch()
			return nil
		}
	}
	s.items = append(s.items, item)
	s.state = StateBuilding
	s.touch()
	return nil
}

// SetQuantity sets the absolute quantity of a line. Zero or below removes it.
func (s *Session) SetQuantity(key pricing.Key, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	for i := range s.items {
		if s.items[i].Key() == key {
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
				if len(s.items) == 0 {
					s.state = StateEmpty
				}
			} else {
				s.items[i].Quantity = quantity
			}
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: line not in cart", pricing.ErrInvalidInput)
}

// RemoveItem deletes a line outright.
func (s *Session) RemoveItem(key pricing.Key) error {
	return s.SetQuantity(key, 0)
}

// ToggleOffer flips whether the given offer is applied to this cart.
func (s *Session) ToggleOffer(offerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	if s.selected[offerID] {
		delete(s.selected, offerID)
	} else {
		s.selected[offerID] = true
	}
	s.touch()
	return nil
}

// SetQuickDiscount turns the flat quick discount on or off.
func (s *Session) SetQuickDiscount(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.quickDiscount = enabled
	s.touch()
	return nil
}

// Clear empties the cart and resets all discounts.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.items = nil
	s.selected = make(map[uuid.UUID]bool)
	s.quickDiscount = false
	s.state = StateEmpty
	s.touch()
}

// BeginCheckout freezes the cart while payment details are collected.
func (s *Session) BeginCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateEmpty:
		return ErrEmptyCart
	case StateCheckoutPending:
		return ErrCheckoutPending
	}
	s.state = StateCheckoutPending
	s.touch()
	return nil
}

// CancelCheckout returns a frozen cart to the building state with its
// contents intact.
func (s *Session) CancelCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCheckoutPending {
		return ErrNotCheckingOut
	}
	s.state = StateBuilding
	s.touch()
	return nil
}

// Complete finalises a checkout and resets the session for the next order.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCheckoutPending {
		return ErrNotCheckingOut
	}
	s.reset()
	return nil
}

// Snapshot captures the cart contents for drafts.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]pricing.LineItem, len(s.items))
	copy(items, s.items)
	selected := make([]uuid.UUID, 0, len(s.selected))
	for id := range s.selected {
		selected = append(selected, id)
	}
	return Snapshot{Items: items, SelectedOfferIDs: selected, QuickDiscount: s.quickDiscount}
}

// LoadSnapshot replaces the cart contents with a stored draft.
func (s *Session) LoadSnapshot(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.items = make([]pricing.LineItem, len(snap.Items))
	copy(s.items, snap.Items)
	s.selected = make(map[uuid.UUID]bool, len(snap.SelectedOfferIDs))
	for _, id := range snap.SelectedOfferIDs {
		s.selected[id] = true
	}
	s.quickDiscount = snap.QuickDiscount
	if len(s.items) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateBuilding
	}
	s.touch()
	return nil
}

// Items returns a copy of the cart lines.
func (s *Session) Items() []pricing.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pricing.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// SelectedOffers returns a copy of the applied offer set.
func (s *Session) SelectedOffers() map[uuid.UUID]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]bool, len(s.selected))
	for id, v := range s.selected {
		out[id] = v
	}
	return out
}

// QuickDiscount reports whether the flat quick discount is on.
func (s *Session) QuickDiscount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quickDiscount
}

// Quote prices the current cart against the given offers.
func (s *Session) Quote(offers []pricing.Offer, opts pricing.Options) pricing.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Compute(s.items, offers, s.selected, s.quickDiscount, opts)
}
