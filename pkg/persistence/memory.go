package persistence

import (
	"context"
	"sync"

	"digital.vasic.challengegame/pkg/game"
)

// MemoryStore keeps the encoded state in a single guarded slot.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveGameState implements GameStatePersistence.
func (s *MemoryStore) SaveGameState(ctx context.Context, state *game.GameState) error {
	if err := checkContext(ctx, "save"); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// LoadGameState implements GameStatePersistence.
func (s *MemoryStore) LoadGameState(ctx context.Context) (*game.GameState, error) {
	if err := checkContext(ctx, "load"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return nil, newError("load", ErrStateNotFound, nil)
	}
	return Decode(data)
}
