package quota

import (
	"context"
	"sync"

	"github.com/octobees/presence-audit/internal/entity"
)

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]entity.QuotaState
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]entity.QuotaState)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, caller string) (entity.QuotaState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[caller]
	return state, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, caller string, state entity.QuotaState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[caller] = state
	return nil
}
