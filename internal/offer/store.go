package offer

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence surface for offers.
type Store interface {
	ListOffers(ctx context.Context, orgID uuid.UUID) ([]Offer, error)
	GetOffer(ctx context.Context, orgID, id uuid.UUID) (Offer, error)
	CreateOffer(ctx context.Context, o Offer) (Offer, error)
	UpdateOffer(ctx context.Context, o Offer) (Offer, error)
	DeleteOffer(ctx context.Context, orgID, id uuid.UUID) error
}
