// Package offer manages percentage promotions and their scheduling windows.
package offer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// Offer is a stored promotion. Scope is recorded for reporting but does not
// restrict which cart lines the discount applies to.
type Offer struct {
	ID        uuid.UUID       `json:"id"`
	OrgID     uuid.UUID       `json:"org_id"`
	Name      string          `json:"name"`
	Percent   decimal.Decimal `json:"percent"`
	Window    pricing.Window  `json:"window"`
	Scope     pricing.Scope   `json:"scope"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PricingOffer converts the stored offer into the engine's representation.
func (o Offer) PricingOffer() pricing.Offer {
	return pricing.Offer{
		ID:      o.ID,
		Name:    o.Name,
		Percent: o.Percent,
		Window:  o.Window,
		Scope:   o.Scope,
	}
}
