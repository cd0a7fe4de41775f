package memory

import (
	"context"
	"sync"
)

// Store keeps entries in process memory. Nothing survives a restart.
type Store struct {
	mu      sync.Mutex
	entries map[string]string
}

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// NewWithEntries returns a store pre-seeded with entries.
func NewWithEntries(entries map[string]string) *Store {
	s := New()
	for k, v := range entries {
		s.entries[k] = v
	}
	return s
}

// Get implements storage.KeyValue.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

// Set implements storage.KeyValue.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}
