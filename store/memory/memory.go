// Package memory provides an in-process store.Store backed by a map.
package memory

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/memocache/store"
)

// Store keeps entries in a map guarded by a RWMutex.
// The zero value is not ready to use; construct with New.
type Store[V any] struct {
	mu sync.RWMutex
	m  map[string]store.Entry[V]
}

var (
	_ store.Store[struct{}] = (*Store[struct{}])(nil)
	_ store.Clearer         = (*Store[struct{}])(nil)
)

func New[V any]() *Store[V] {
	return &Store[V]{m: make(map[string]store.Entry[V])}
}

func (s *Store[V]) Get(_ context.Context, key string) (store.Entry[V], bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	return e, ok, nil
}

func (s *Store[V]) Set(_ context.Context, key string, e store.Entry[V]) error {
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	return nil
}

// Del returns store.ErrNotFound when key is absent.
func (s *Store[V]) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.m, key)
	return nil
}

func (s *Store[V]) Clear(_ context.Context) error {
	s.mu.Lock()
	s.m = make(map[string]store.Entry[V])
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, valid or not.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Keys returns a snapshot of the stored keys in no particular order.
func (s *Store[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out
}
