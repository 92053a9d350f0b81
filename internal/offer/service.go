package offer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/events"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// Service validates and persists offers. Writes are rejected when the offer's
// window overlaps another offer of the same restaurant.
type Service struct {
	store  Store
	bus    *events.Bus
	logger zerolog.Logger
}

func NewService(store Store, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]Offer, error) {
	return s.store.ListOffers(ctx, orgID)
}

// ActivePricingOffers returns the active offers in the engine's shape. The
// cart applies whichever of these the cashier selects; windows are scheduling
// metadata, not an application-time filter.
func (s *Service) ActivePricingOffers(ctx context.Context, orgID uuid.UUID) ([]pricing.Offer, error) {
	offers, err := s.store.ListOffers(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]pricing.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Active {
			out = append(out, o.PricingOffer())
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, o Offer) (Offer, error) {
	if err := s.validate(ctx, o, uuid.Nil); err != nil {
		return Offer{}, err
	}
	created, err := s.store.CreateOffer(ctx, o)
	if err != nil {
		return Offer{}, err
	}
	s.emit(ctx, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, o Offer) (Offer, error) {
	if _, err := s.store.GetOffer(ctx, o.OrgID, o.ID); err != nil {
		return Offer{}, err
	}
	if err := s.validate(ctx, o, o.ID); err != nil {
		return Offer{}, err
	}
	return s.store.UpdateOffer(ctx, o)
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.DeleteOffer(ctx, orgID, id)
}

// validate checks the offer's own shape, then rejects it if its window
// overlaps any other offer of the same org. Nothing is written on conflict.
func (s *Service) validate(ctx context.Context, o Offer, excludeID uuid.UUID) error {
	if _, err := pricing.NewOffer(orDefault(o.ID), o.Name, o.Percent, o.Window, o.Scope); err != nil {
		return common.NewAppError("VALIDATION_ERROR", err.Error(), http.StatusBadRequest, err)
	}
	existing, err := s.store.ListOffers(ctx, o.OrgID)
	if err != nil {
		return fmt.Errorf("list offers for conflict check: %w", err)
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if o.Window.Conflicts(other.Window) {
			return common.NewAppError(
				"OFFER_WINDOW_CONFLICT",
				fmt.Sprintf("offer window overlaps %q", other.Name),
				http.StatusUnprocessableEntity,
				nil,
			)
		}
	}
	return nil
}

func orDefault(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func (s *Service) emit(ctx context.Context, o Offer) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Emit(ctx, events.TopicOfferCreated, o.ID, map[string]any{
		"org_id":  o.OrgID,
		"name":    o.Name,
		"percent": o.Percent,
	}); err != nil {
		s.logger.Warn().Err(err).Str("offer_id", o.ID.String()).Msg("emit offer.created failed")
	}
}
