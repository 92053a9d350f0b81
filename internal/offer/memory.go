package offer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/common"
	"github.com/Hitarth2510/thrive-backend/internal/pricing"
)

// MemoryStore keeps offers in memory. Used in demo mode and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]Offer
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{offers: make(map[uuid.UUID]Offer), now: time.Now}
}

func (s *MemoryStore) ListOffers(_ context.Context, orgID uuid.UUID) ([]Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if o.OrgID == orgID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetOffer(_ context.Context, orgID, id uuid.UUID) (Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok || o.OrgID != orgID {
		return Offer{}, common.ErrNotFound
	}
	return o, nil
}

func (s *MemoryStore) CreateOffer(_ context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := s.now()
	o.CreatedAt = now
	o.UpdatedAt = now
	s.offers[o.ID] = o
	return o, nil
}

func (s *MemoryStore) UpdateOffer(_ context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.offers[o.ID]
	if !ok || existing.OrgID != o.OrgID {
		return Offer{}, common.ErrNotFound
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = s.now()
	s.offers[o.ID] = o
	return o, nil
}

func (s *MemoryStore) DeleteOffer(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok || o.OrgID != orgID {
		return common.ErrNotFound
	}
	delete(s.offers, id)
	return nil
}

// SeedDemoOffers loads the sample promotions and returns them.
func SeedDemoOffers(store *MemoryStore, orgID uuid.UUID) []Offer {
	ctx := context.Background()
	happyHour, _ := store.CreateOffer(ctx, Offer{
		OrgID:   orgID,
		Name:    "Happy Hour",
		Percent: decimal.RequireFromString("10"),
		Window: pricing.Window{
			StartDate: "2025-01-01", EndDate: "2025-12-31",
			StartTime: "15:00", EndTime: "17:00",
		},
		Scope:  pricing.ScopeAll,
		Active: true,
	})
	student, _ := store.CreateOffer(ctx, Offer{
		OrgID:   orgID,
		Name:    "Student Discount",
		Percent: decimal.RequireFromString("15"),
		Window: pricing.Window{
			StartDate: "2025-01-01", EndDate: "2025-12-31",
			StartTime: "08:00", EndTime: "11:00",
		},
		Scope:  pricing.ScopeProducts,
		Active: true,
	})
	return []Offer{happyHour, student}
}
