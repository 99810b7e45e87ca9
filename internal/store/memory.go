package store

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
)

// MemoryStore keeps artifacts in a map. It counts writes so callers can
// check that cached artifacts were not regenerated.
type MemoryStore struct {
	mu     sync.Mutex
	images map[string]image.Image
	writes map[string]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		images: make(map[string]image.Image),
		writes: make(map[string]int),
	}
}

// Exists reports whether name has been saved.
func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.images[name]
	return ok, nil
}

// Save stores img under name.
func (s *MemoryStore) Save(ctx context.Context, name string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = img
	s.writes[name]++
	return nil
}

// Load returns the image saved under name.
func (s *MemoryStore) Load(ctx context.Context, name string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return img, nil
}

// List returns all names in lexical order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.images))
	for n := range s.images {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Writes returns how many times name has been saved.
func (s *MemoryStore) Writes(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[name]
}

// TotalWrites returns the number of Save calls across all names.
func (s *MemoryStore) TotalWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.writes {
		total += n
	}
	return total
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
