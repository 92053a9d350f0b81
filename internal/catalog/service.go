package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// Menu is the full sellable catalog of one restaurant.
type Menu struct {
	Products []Product `json:"products"`
	Combos   []Combo   `json:"combos"`
}

// Service orchestrates menu queries, mutation, and caching.
type Service struct {
	store  Store
	cache  *Cache
	logger zerolog.Logger
}

func NewService(store Store, cache *Cache, logger zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Menu returns the restaurant's products and combos, served from cache when
// possible. Cache failures degrade to a store read.
func (s *Service) Menu(ctx context.Context, orgID uuid.UUID) (Menu, error) {
	key := menuKey(orgID)
	var cached Menu
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Str("org_id", orgID.String()).Msg("menu cache read failed")
	}
	if hit {
		return cached, nil
	}

	products, err := s.store.ListProducts(ctx, orgID)
	if err != nil {
		return Menu{}, fmt.Errorf("list products: %w", err)
	}
	combos, err := s.store.ListCombos(ctx, orgID)
	if err != nil {
		return Menu{}, fmt.Errorf("list combos: %w", err)
	}
	menu := Menu{Products: products, Combos: combos}
	if err := s.cache.SetJSON(ctx, key, menu); err != nil {
		s.logger.Warn().Err(err).Str("org_id", orgID.String()).Msg("menu cache write failed")
	}
	return menu, nil
}

// Resolve turns an (item, kind) reference into a unit-quantity line item
// using the current menu price. Unavailable items cannot be sold.
func (s *Service) Resolve(ctx context.Context, orgID, itemID uuid.UUID, kind pricing.Kind) (pricing.LineItem, error) {
	switch kind {
	case pricing.KindProduct:
		p, err := s.store.GetProduct(ctx, orgID, itemID)
		if err != nil {
			return pricing.LineItem{}, err
		}
		if !p.Available {
			return pricing.LineItem{}, itemUnavailable(p.Name)
		}
		return pricing.NewLineItem(p.ID, pricing.KindProduct, p.Name, p.Price, 1)
	case pricing.KindCombo:
		c, err := s.store.GetCombo(ctx, orgID, itemID)
		if err != nil {
			return pricing.LineItem{}, err
		}
		if !c.Available {
			return pricing.LineItem{}, itemUnavailable(c.Name)
		}
		return pricing.NewLineItem(c.ID, pricing.KindCombo, c.Name, c.Price, 1)
	default:
		return pricing.LineItem{}, fmt.Errorf("%w: unknown item kind %q", pricing.ErrInvalidInput, kind)
	}
}

func itemUnavailable(name string) error {
	return common.NewAppError("ITEM_UNAVAILABLE", fmt.Sprintf("%s is not available", name), http.StatusConflict, nil)
}

func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, p.OrgID)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	updated, err := s.store.UpdateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, p.OrgID)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.store.DeleteProduct(ctx, orgID, id); err != nil {
		return err
	}
	s.invalidate(ctx, orgID)
	return nil
}

func (s *Service) CreateCombo(ctx context.Context, c Combo) (Combo, error) {
	if err := s.validateComboItems(ctx, c); err != nil {
		return Combo{}, err
	}
	created, err := s.store.CreateCombo(ctx, c)
	if err != nil {
		return Combo{}, err
	}
	s.invalidate(ctx, c.OrgID)
	return created, nil
}

func (s *Service) UpdateCombo(ctx context.Context, c Combo) (Combo, error) {
	if err := s.validateComboItems(ctx, c); err != nil {
		return Combo{}, err
	}
	updated, err := s.store.UpdateCombo(ctx, c)
	if err != nil {
		return Combo{}, err
	}
	s.invalidate(ctx, c.OrgID)
	return updated, nil
}

func (s *Service) DeleteCombo(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.store.DeleteCombo(ctx, orgID, id); err != nil {
		return err
	}
	s.invalidate(ctx, orgID)
	return nil
}

// validateComboItems ensures every bundled product exists in the same org.
func (s *Service) validateComboItems(ctx context.Context, c Combo) error {
	for _, it := range c.Items {
		if it.Quantity < 1 {
			return common.NewAppError("VALIDATION_ERROR", "combo item quantity must be at least 1", http.StatusBadRequest, nil)
		}
		if _, err := s.store.GetProduct(ctx, c.OrgID, it.ProductID); err != nil {
			return common.NewAppError("VALIDATION_ERROR",
				fmt.Sprintf("combo references unknown product %s", it.ProductID), http.StatusBadRequest, err)
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, orgID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, orgID); err != nil {
		s.logger.Warn().Err(err).Str("org_id", orgID.String()).Msg("menu cache invalidation failed")
	}
}
