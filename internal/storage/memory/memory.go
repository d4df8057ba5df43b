// Package memory provides an in-process implementation of storage.Store.
// Nothing survives a restart; it backs tests and throwaway sessions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mmynk/checkbook/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a map guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, entries ...storage.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.records[e.Key] = append([]byte(nil), e.Value...)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }
