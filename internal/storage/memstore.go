// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"sort"
	"sync"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store used by tests and as a degraded fallback
// when disk storage is unavailable.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Load reads the blob stored under key.
func (s *MemStore) Load(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate stored state.
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Save writes the blob under key.
func (s *MemStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[key] = stored
	return nil
}

// Delete removes the key.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys lists all stored keys in sorted order.
func (s *MemStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// =============================================================================
// FAILING STORE
// =============================================================================

// ErrStoreUnavailable is returned by FailingStore for every operation.
var ErrStoreUnavailable = errors.New("storage unavailable")

// FailingStore rejects all operations. Tests use it to verify that the
// managers degrade to in-memory state when persistence fails.
type FailingStore struct{}

// Load always fails.
func (FailingStore) Load(string) ([]byte, bool, error) { return nil, false, ErrStoreUnavailable }

// Save always fails.
func (FailingStore) Save(string, []byte) error { return ErrStoreUnavailable }

// Delete always fails.
func (FailingStore) Delete(string) error { return ErrStoreUnavailable }

// Keys always fails.
func (FailingStore) Keys() ([]string, error) { return nil, ErrStoreUnavailable }
