package clock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lineforge/lineforge/internal/clock"
)

func TestProvider_NextIsStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	p := clock.New()

	first := p.Next()
	second := p.Next()
	third := p.Next()

	assert.Equal(t, int64(1), first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestProvider_LastTracksMostRecent(t *testing.T) {
	t.Parallel()

	p := clock.New()

	assert.Equal(t, int64(0), p.Last())

	ts := p.Next()
	assert.Equal(t, ts, p.Last())
}

func TestRestore_ContinuesAfterGivenTick(t *testing.T) {
	t.Parallel()

	p := clock.Restore(41)

	assert.Equal(t, int64(41), p.Last())
	assert.Equal(t, int64(42), p.Next())
}

func TestProvider_ConcurrentNextNeverRepeats(t *testing.T) {
	t.Parallel()

	p := clock.New()

	const goroutines = 50

	const perGoroutine = 100

	results := make(chan int64, goroutines*perGoroutine)

	var wg sync.WaitGroup

	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()

			for range perGoroutine {
				results <- p.Next()
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[int64]bool, goroutines*perGoroutine)

	for ts := range results {
		assert.False(t, seen[ts], "timestamp %d allocated twice", ts)
		seen[ts] = true
	}

	assert.Len(t, seen, goroutines*perGoroutine)
}
