package store

import (
	"strconv"
	"sync"
)

// Sequence issues monotonically increasing numeric ids shared by every
// collection of a Store.
type Sequence struct {
	mu   sync.Mutex
	next uint64
}

// NewSequence returns a sequence whose first id is first.
func NewSequence(first uint64) *Sequence {
	return &Sequence{next: first}
}

// Next returns the next unused id.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return strconv.FormatUint(id, 10)
}

// Observe moves the sequence past id if id is numeric, so ids supplied by
// callers are never issued again.
func (s *Sequence) Observe(id string) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= s.next {
		s.next = n + 1
	}
}
