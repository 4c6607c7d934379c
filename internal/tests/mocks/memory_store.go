package mocks

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory storage.Store that still runs documents
// through the JSON pipeline, so tests observe the same encode/decode
// behavior as the encrypted store.
type MemoryStore struct {
	LoadErr error
	SaveErr error

	mu        sync.Mutex
	records   map[string][]byte
	saveCount int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string, out any) (bool, error) {
	if s.LoadErr != nil {
		return false, s.LoadErr
	}
	s.mu.Lock()
	value, ok := s.records[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(value, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, doc any) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[key] = value
	s.saveCount++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}

// Seed writes a raw document for load tests.
func (s *MemoryStore) Seed(key string, doc any) error {
	return s.Save(context.Background(), key, doc)
}
