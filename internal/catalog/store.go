package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence surface for menu data. Implementations must scope
// every operation to the supplied org.
type Store interface {
	ListProducts(ctx context.Context, orgID uuid.UUID) ([]Product, error)
	GetProduct(ctx context.Context, orgID, id uuid.UUID) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error

	ListCombos(ctx context.Context, orgID uuid.UUID) ([]Combo, error)
	GetCombo(ctx context.Context, orgID, id uuid.UUID) (Combo, error)
	CreateCombo(ctx context.Context, c Combo) (Combo, error)
	UpdateCombo(ctx context.Context, c Combo) (Combo, error)
	DeleteCombo(ctx context.Context, orgID, id uuid.UUID) error
}
