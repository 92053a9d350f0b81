package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence surface for drafts and sales.
type Store interface {
	SaveDraft(ctx context.Context, d Draft) (Draft, error)
	ListDrafts(ctx context.Context, orgID uuid.UUID) ([]Draft, error)
	GetDraft(ctx context.Context, orgID, id uuid.UUID) (Draft, error)
	DeleteDraft(ctx context.Context, orgID, id uuid.UUID) error

	// CommitSale writes the sale and its lines atomically.
	CommitSale(ctx context.Context, s Sale) (Sale, error)
	ListSales(ctx context.Context, orgID uuid.UUID, page, perPage int) ([]Sale, int, error)
	GetSale(ctx context.Context, orgID, id uuid.UUID) (Sale, error)
	// ListSalesBetween returns sales with created_at in [from, to).
	ListSalesBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Sale, error)
}
