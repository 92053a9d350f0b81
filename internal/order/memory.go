package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// MemoryStore keeps drafts and sales in memory. Used in demo mode and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]Draft
	sales  map[uuid.UUID]Sale
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[uuid.UUID]Draft),
		sales:  make(map[uuid.UUID]Sale),
		now:    time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (s *MemoryStore) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *MemoryStore) SaveDraft(_ context.Context, d Draft) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}
	s.drafts[d.ID] = d
	return d, nil
}

func (s *MemoryStore) ListDrafts(_ context.Context, orgID uuid.UUID) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Draft, 0)
	for _, d := range s.drafts {
		if d.OrgID == orgID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetDraft(_ context.Context, orgID, id uuid.UUID) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok || d.OrgID != orgID {
		return Draft{}, common.ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) DeleteDraft(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.OrgID != orgID {
		return common.ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *MemoryStore) CommitSale(_ context.Context, sale Sale) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = s.now()
	}
	s.sales[sale.ID] = sale
	return sale, nil
}

func (s *MemoryStore) sortedSales(orgID uuid.UUID) []Sale {
	out := make([]Sale, 0)
	for _, sale := range s.sales {
		if sale.OrgID == orgID {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) ListSales(_ context.Context, orgID uuid.UUID, page, perPage int) ([]Sale, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.sortedSales(orgID)
	total := len(all)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	start := (page - 1) * perPage
	if start >= total {
		return []Sale{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *MemoryStore) GetSale(_ context.Context, orgID, id uuid.UUID) (Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok || sale.OrgID != orgID {
		return Sale{}, common.ErrNotFound
	}
	return sale, nil
}

func (s *MemoryStore) ListSalesBetween(_ context.Context, orgID uuid.UUID, from, to time.Time) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sale, 0)
	for _, sale := range s.sales {
		if sale.OrgID != orgID {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
