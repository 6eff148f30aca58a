package visited

import (
	"context"
	"sync"
)

// MemorySet is an in-process Set for tests and the dev-mode harvester.
type MemorySet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemorySet() *MemorySet {
	return &MemorySet{keys: make(map[string]struct{})}
}

func (s *MemorySet) Mark(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
	return nil
}

func (s *MemorySet) MarkMany(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return nil
}

func (s *MemorySet) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

func (s *MemorySet) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
	return nil
}
