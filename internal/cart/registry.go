package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// Registry tracks live cart sessions by id. Sessions are in-memory only;
// a restart loses unfinished carts, which is the accepted POS behavior.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create opens a new session for the restaurant and registers it.
func (r *Registry) Create(orgID uuid.UUID) *Session {
	s := NewSession(orgID)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session, scoped to the restaurant that owns it.
func (r *Registry) Get(orgID, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || s.OrgID != orgID {
		return nil, common.ErrNotFound
	}
	return s, nil
}

// Delete discards a session.
func (r *Registry) Delete(orgID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.OrgID != orgID {
		return common.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
