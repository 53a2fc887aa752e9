package repository

import (
	"sync"

	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// orderedStore keeps records in insertion order with an id index.
// Records are cloned on the way in and out so callers never share state
// with the store.
type orderedStore[T any] struct {
	mu      sync.RWMutex
	records []T
	index   map[string]int
	idOf    func(T) string
	clone   func(T) T
}

func newOrderedStore[T any](idOf func(T) string, clone func(T) T) *orderedStore[T] {
	return &orderedStore[T]{
		index: make(map[string]int),
		idOf:  idOf,
		clone: clone,
	}
}

func (s *orderedStore[T]) insert(record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idOf(record)
	if _, exists := s.index[id]; exists {
		return apperror.Conflict("record already exists", apperror.ErrRecordExists)
	}

	s.index[id] = len(s.records)
	s.records = append(s.records, s.clone(record))
	return nil
}

func (s *orderedStore[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(s.records[i]), true
}

func (s *orderedStore[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = s.clone(r)
	}
	return out
}
