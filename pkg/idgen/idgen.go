// Package idgen hands out record identifiers.
package idgen

import (
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique record ids
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs
type UUID struct{}

// NewID returns a new random UUID string
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence returns the given ids in order and then falls back to UUIDs.
// Tests use it to pin the ids a service will assign.
type Sequence struct {
	mu  sync.Mutex
	ids []string
}

// NewSequence creates a Sequence over ids
func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

// NewID returns the next queued id
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return uuid.NewString()
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}
