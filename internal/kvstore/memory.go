package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps entries in process memory. A positive quota limits the
// total number of key and value bytes held.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int
	used    int
}

// NewMemoryStore creates an empty store. quota <= 0 means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		quota:   quota,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	if previous, ok := s.entries[key]; ok {
		used -= len(key) + len(previous)
	}
	used += len(key) + len(value)
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("set %s (%d of %d bytes): %w", key, used, s.quota, ErrQuotaExceeded)
	}

	s.entries[key] = value
	s.used = used
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if previous, ok := s.entries[key]; ok {
		s.used -= len(key) + len(previous)
		delete(s.entries, key)
	}
	return nil
}

// Used returns the number of bytes currently held.
func (s *MemoryStore) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
