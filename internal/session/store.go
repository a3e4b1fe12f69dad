// Package session owns all client-side state that must survive process
// restarts: the per-user voted set and the badge progression. Canonical
// counts always live on the backend; this package only tracks what the
// current device has already done.
package session

import "sync"

// Store is plain key-value string storage with no transactional
// guarantees. Get reports absence explicitly so callers can default
// gracefully instead of treating missing keys as errors.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryStore keeps values in a map. Used in tests and as the fallback
// when no storage path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
