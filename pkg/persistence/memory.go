package persistence

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory implementation of KVStore.
// This is primarily useful for testing and devices that don't need persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// SyncSetKeyValue stores a copy of value under key.
func (s *MemoryStore) SyncSetKeyValue(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// SyncGetKeyValue copies the value stored under key into buf.
func (s *MemoryStore) SyncGetKeyValue(key string, buf []byte) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[key]
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return copyOut(buf, value)
}

// SyncDeleteKeyValue removes key.
func (s *MemoryStore) SyncDeleteKeyValue(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; !exists {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Compile-time interface satisfaction check.
var _ KVStore = (*MemoryStore)(nil)
