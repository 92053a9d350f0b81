package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// MemoryStore is an in-memory user store for demo mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]User
	byEmail map[string]User
}

func NewMemoryStore(users ...User) *MemoryStore {
	s := &MemoryStore{
		byID:    make(map[uuid.UUID]User),
		byEmail: make(map[string]User),
	}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

func (s *MemoryStore) Put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[u.ID] = u
	s.byEmail[strings.ToLower(u.Email)] = u
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, common.ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, common.ErrNotFound
	}
	return u, nil
}
