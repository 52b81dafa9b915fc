package prefs

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps preferences in process memory. Values are lost on
// restart.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	updatedAt time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]map[string]memoryEntry)}
}

func (b *MemoryBackend) ForVisitor(visitorID string) Store {
	return &memoryStore{backend: b, visitor: visitorID}
}

// Prune drops values not written since before, and visitors left empty.
func (b *MemoryBackend) Prune(_ context.Context, before time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed int64
	for visitor, slot := range b.values {
		for key, entry := range slot {
			if entry.updatedAt.Before(before) {
				delete(slot, key)
				removed++
			}
		}
		if len(slot) == 0 {
			delete(b.values, visitor)
		}
	}
	return removed, nil
}

// Visitors returns how many visitors have at least one stored value.
func (b *MemoryBackend) Visitors() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

type memoryStore struct {
	backend *MemoryBackend
	visitor string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	entry, ok := s.backend.values[s.visitor][key]
	if !ok {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	slot, ok := s.backend.values[s.visitor]
	if !ok {
		slot = make(map[string]memoryEntry)
		s.backend.values[s.visitor] = slot
	}
	slot[key] = memoryEntry{value: value, updatedAt: time.Now()}
	return nil
}
