package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

func newCachedService(t *testing.T) (*Service, *MemoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewMemoryStore()
	return NewService(store, NewCache(client, 5*time.Minute), zerolog.Nop()), store, mr
}

func TestMenuCachesAndInvalidates(t *testing.T) {
	svc, store, mr := newCachedService(t)
	orgID := uuid.New()
	SeedDemoMenu(store, orgID)
	ctx := context.Background()

	menu, err := svc.Menu(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, menu.Products, 5)
	require.Len(t, menu.Combos, 2)
	require.True(t, mr.Exists(menuKey(orgID)))

	_, err = svc.CreateProduct(ctx, Product{
		OrgID:     orgID,
		Name:      "Flat White",
		Price:     decimal.RequireFromString("4.60"),
		Available: true,
	})
	require.NoError(t, err)
	require.False(t, mr.Exists(menuKey(orgID)))

	menu, err = svc.Menu(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, menu.Products, 6)
}

func TestMenuIsOrgScoped(t *testing.T) {
	svc, store, _ := newCachedService(t)
	orgA := uuid.New()
	orgB := uuid.New()
	SeedDemoMenu(store, orgA)

	menu, err := svc.Menu(context.Background(), orgB)
	require.NoError(t, err)
	require.Empty(t, menu.Products)
	require.Empty(t, menu.Combos)
}

func TestResolveUsesCurrentMenuPrice(t *testing.T) {
	svc, store, _ := newCachedService(t)
	orgID := uuid.New()
	products, combos := SeedDemoMenu(store, orgID)
	ctx := context.Background()

	item, err := svc.Resolve(ctx, orgID, products[0].ID, pricing.KindProduct)
	require.NoError(t, err)
	require.Equal(t, "Cappuccino", item.Name)
	require.True(t, item.UnitPrice.Equal(decimal.RequireFromString("4.50")))
	require.Equal(t, 1, item.Quantity)

	combo, err := svc.Resolve(ctx, orgID, combos[1].ID, pricing.KindCombo)
	require.NoError(t, err)
	require.Equal(t, pricing.KindCombo, combo.Kind)
	require.True(t, combo.UnitPrice.Equal(decimal.RequireFromString("12.00")))
}

func TestResolveRejectsUnavailable(t *testing.T) {
	svc, store, _ := newCachedService(t)
	orgID := uuid.New()
	products, _ := SeedDemoMenu(store, orgID)
	ctx := context.Background()

	p := products[0]
	p.Available = false
	_, err := store.UpdateProduct(ctx, p)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, orgID, p.ID, pricing.KindProduct)
	require.Error(t, err)
}

func TestCreateComboRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := newCachedService(t)
	orgID := uuid.New()

	_, err := svc.CreateCombo(context.Background(), Combo{
		OrgID: orgID,
		Name:  "Ghost Combo",
		Price: decimal.RequireFromString("9.99"),
		Items: []ComboItem{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
}
