package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/vinstock/internal/repository"
)

// Store keeps slots in process memory. Used by tests and throwaway runs.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewStore builds an empty in-memory slot store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under slot.
func (s *Store) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[slot]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Put replaces the blob stored under slot.
func (s *Store) Put(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = append([]byte(nil), payload...)
	return nil
}
