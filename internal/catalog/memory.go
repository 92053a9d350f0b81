package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// MemoryStore keeps the menu in memory. Used in demo mode and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	combos   map[uuid.UUID]Combo
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[uuid.UUID]Product),
		combos:   make(map[uuid.UUID]Combo),
		now:      time.Now,
	}
}

func (s *MemoryStore) ListProducts(_ context.Context, orgID uuid.UUID) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, orgID, id uuid.UUID) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok || p.OrgID != orgID {
		return Product{}, common.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok || existing.OrgID != p.OrgID {
		return Product{}, common.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.OrgID != orgID {
		return common.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ListCombos(_ context.Context, orgID uuid.UUID) ([]Combo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Combo, 0, len(s.combos))
	for _, c := range s.combos {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetCombo(_ context.Context, orgID, id uuid.UUID) (Combo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.combos[id]
	if !ok || c.OrgID != orgID {
		return Combo{}, common.ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) CreateCombo(_ context.Context, c Combo) (Combo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.combos[c.ID] = c
	return c, nil
}

func (s *MemoryStore) UpdateCombo(_ context.Context, c Combo) (Combo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.combos[c.ID]
	if !ok || existing.OrgID != c.OrgID {
		return Combo{}, common.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	s.combos[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCombo(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.combos[id]
	if !ok || c.OrgID != orgID {
		return common.ErrNotFound
	}
	delete(s.combos, id)
	return nil
}

// SeedDemoMenu loads the sample cafe menu into the store and returns it.
func SeedDemoMenu(store *MemoryStore, orgID uuid.UUID) ([]Product, []Combo) {
	ctx := context.Background()
	menu := []struct {
		name     string
		category string
		price    string
	}{
		{"Cappuccino", "coffee", "4.50"},
		{"Espresso", "coffee", "3.00"},
		{"Latte", "coffee", "4.80"},
		{"Americano", "coffee", "3.50"},
		{"Mocha", "coffee", "5.20"},
	}
	products := make([]Product, 0, len(menu))
	for _, m := range menu {
		p, _ := store.CreateProduct(ctx, Product{
			OrgID:     orgID,
			Name:      m.name,
			Category:  m.category,
			Price:     decimal.RequireFromString(m.price),
			Available: true,
		})
		products = append(products, p)
	}

	combos := make([]Combo, 0, 2)
	c1, _ := store.CreateCombo(ctx, Combo{
		OrgID:     orgID,
		Name:      "Coffee + Pastry",
		Price:     decimal.RequireFromString("7.50"),
		Items:     []ComboItem{{ProductID: products[0].ID, Quantity: 1}},
		Available: true,
	})
	c2, _ := store.CreateCombo(ctx, Combo{
		OrgID:     orgID,
		Name:      "Breakfast Set",
		Price:     decimal.RequireFromString("12.00"),
		Items:     []ComboItem{{ProductID: products[1].ID, Quantity: 1}, {ProductID: products[2].ID, Quantity: 1}},
		Available: true,
	})
	combos = append(combos, c1, c2)
	return products, combos
}
