package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	c := NewDeterministicClock()

	first := c.Now()
	second := c.Now()
	third := c.Now()

	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, epoch, first)
	assert.Equal(t, epoch.Add(time.Millisecond), second)
	assert.Equal(t, epoch.Add(2*time.Millisecond), third)
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClock()
	c.Now()
	c.Now()

	c.Reset()
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), c.Now())
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	c := NewDeterministicClock()

	const calls = 200
	results := make(chan time.Time, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Now()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[time.Time]bool, calls)
	for ts := range results {
		require.False(t, seen[ts], "duplicate timestamp %v", ts)
		seen[ts] = true
	}
	assert.Len(t, seen, calls)
}

func TestFixedTokenGenerator(t *testing.T) {
	g := NewFixedTokenGenerator("run-42")
	assert.Equal(t, "run-42", g.Generate())
	assert.Equal(t, "run-42", g.Generate())

	def := NewFixedTokenGenerator("")
	assert.Equal(t, "test-run-default", def.Generate())
}
