package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_StrictlyIncreasing(t *testing.T) {
	gen := NewClock()

	prev := gen.Next()
	for i := 0; i < 10_000; i++ {
		id := gen.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestClock_SameTickGetsBumped(t *testing.T) {
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := &Clock{now: func() time.Time { return frozen }}

	first := gen.Next()
	second := gen.Next()
	third := gen.Next()

	assert.Equal(t, frozen.UnixMicro(), first)
	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)
}

func TestClock_ToleratesClockGoingBackwards(t *testing.T) {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := &Clock{now: func() time.Time { return current }}

	first := gen.Next()
	current = current.Add(-time.Minute)
	second := gen.Next()

	assert.Greater(t, second, first)
}

func TestClock_ConcurrentMintsAreUnique(t *testing.T) {
	gen := NewClock()

	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.Next()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %d", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestSequence(t *testing.T) {
	gen := NewSequence(100)

	assert.Equal(t, int64(100), gen.Next())
	assert.Equal(t, int64(101), gen.Next())
	assert.Equal(t, int64(102), gen.Next())
}
