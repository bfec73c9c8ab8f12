package repository

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps seance states in a process-local map.  It backs tests
// and demo runs where no disk, redis or mysql should be touched.  States
// are stored as encoded JSON so load/save exercise the same round-trip as
// the durable providers.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryStore returns an empty in-memory provider.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

// Load returns the stored state or ErrSeanceStateNotFound.
func (s *MemoryStore) Load(_ context.Context, seanceID string) (*SeanceState, error) {
	s.mu.RLock()
	raw, ok := s.states[seanceID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSeanceStateNotFound
	}
	st := NewSeanceState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Save encodes and stores the state.
func (s *MemoryStore) Save(_ context.Context, seanceID string, state *SeanceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.states[seanceID] = raw
	s.mu.Unlock()
	return nil
}
