// Package idgen mints the integer identities used across the library.
//
// Identities are derived from wall-clock microseconds, which keeps them
// roughly sortable by creation time, but uniqueness within the process is
// structural: a mint that would not exceed the previously issued value is
// bumped past it, so batches minted inside one clock tick (or across a clock
// adjustment) never collide.
package idgen

import (
	"sync"
	"time"
)

// Generator mints identities. Implementations must be safe for concurrent use.
type Generator interface {
	Next() int64
}

// Clock is the production Generator: wall-clock microseconds with a
// monotonic floor.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMicro()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Sequence is a deterministic Generator for tests.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence returns a Sequence starting at start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	return id
}
