package category

import (
	"sync"
)

// Store holds the current section mapping and serves classifications
// concurrently. Reload swaps the mapping atomically; a failed reload keeps
// the last good table.
type Store struct {
	path string

	mu      sync.RWMutex
	mapping Mapping
}

// NewStore loads the mapping from path, or falls back to the built-in table
// when path is empty.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		s.mapping = DefaultMapping()
		return s, nil
	}
	m, err := LoadMapping(path)
	if err != nil {
		return nil, err
	}
	s.mapping = m
	return s, nil
}

// Classify returns the category for a raw section id.
func (s *Store) Classify(sectionID string) Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapping.Classify(sectionID)
}

// Reload re-reads the mapping file and swaps the table in.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	m, err := LoadMapping(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.mapping = m
	s.mu.Unlock()
	return nil
}
