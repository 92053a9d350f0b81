package offer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/events"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

func newService(t *testing.T) (*Service, *MemoryStore, *events.MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	eventStore := events.NewMemoryStore()
	bus := &events.Bus{Store: eventStore}
	return NewService(store, bus, zerolog.Nop()), store, eventStore
}

func makeOffer(orgID uuid.UUID, name, percent string, w pricing.Window) Offer {
	return Offer{
		OrgID:   orgID,
		Name:    name,
		Percent: decimal.RequireFromString(percent),
		Window:  w,
		Scope:   pricing.ScopeAll,
		Active:  true,
	}
}

func TestCreateEmitsEvent(t *testing.T) {
	svc, _, eventStore := newService(t)
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), makeOffer(orgID, "Happy Hour", "10", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "15:00", EndTime: "17:00",
	}))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	recorded := eventStore.Events()
	require.Len(t, recorded, 1)
	require.Equal(t, events.TopicOfferCreated, recorded[0].Topic)
}

func TestCreateRejectsOverlappingWindow(t *testing.T) {
	svc, store, _ := newService(t)
	orgID := uuid.New()

	_, err := svc.Create(context.Background(), makeOffer(orgID, "Happy Hour", "10", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-06-30", StartTime: "15:00", EndTime: "17:00",
	}))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), makeOffer(orgID, "Afternoon Deal", "5", pricing.Window{
		StartDate: "2025-06-01", EndDate: "2025-09-30", StartTime: "16:00", EndTime: "18:00",
	}))
	require.Error(t, err)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)

	offers, err := store.ListOffers(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
}

func TestCreateAllowsDisjointTimes(t *testing.T) {
	svc, _, _ := newService(t)
	orgID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, makeOffer(orgID, "Morning", "15", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "08:00", EndTime: "11:00",
	}))
	require.NoError(t, err)

	// Dates overlap but the daily time windows do not.
	_, err = svc.Create(ctx, makeOffer(orgID, "Afternoon", "10", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "15:00", EndTime: "17:00",
	}))
	require.NoError(t, err)
}

func TestUpdateExcludesSelfFromConflictCheck(t *testing.T) {
	svc, _, _ := newService(t)
	orgID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, makeOffer(orgID, "Happy Hour", "10", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "15:00", EndTime: "17:00",
	}))
	require.NoError(t, err)

	created.Percent = decimal.RequireFromString("12")
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	require.True(t, updated.Percent.Equal(decimal.RequireFromString("12")))
}

func TestConflictsAreOrgScoped(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	window := pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "15:00", EndTime: "17:00",
	}

	_, err := svc.Create(ctx, makeOffer(uuid.New(), "Happy Hour", "10", window))
	require.NoError(t, err)
	_, err = svc.Create(ctx, makeOffer(uuid.New(), "Happy Hour", "10", window))
	require.NoError(t, err)
}

func TestActivePricingOffersFiltersInactive(t *testing.T) {
	svc, store, _ := newService(t)
	orgID := uuid.New()
	ctx := context.Background()

	offers := SeedDemoOffers(store, orgID)
	inactive := offers[0]
	inactive.Active = false
	_, err := store.UpdateOffer(ctx, inactive)
	require.NoError(t, err)

	active, err := svc.ActivePricingOffers(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Student Discount", active[0].Name)
}

func TestCreateRejectsBadPercent(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Create(context.Background(), makeOffer(uuid.New(), "Too Generous", "150", pricing.Window{
		StartDate: "2025-01-01", EndDate: "2025-12-31", StartTime: "15:00", EndTime: "17:00",
	}))
	require.Error(t, err)
}
