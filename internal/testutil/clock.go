package testutil

import (
	"sync"
	"time"
)

// DeterministicClock hands out strictly increasing timestamps from a
// fixed epoch, one millisecond apart. Observations stamped with it
// produce byte-identical traces run to run, which golden comparison
// depends on.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex - producers stamp observations from their own goroutines.
type DeterministicClock struct {
	mu    sync.Mutex
	epoch time.Time
	ticks int64
}

// NewDeterministicClock creates a clock starting at a fixed epoch
// (2020-01-01T00:00:00Z).
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{
		epoch: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Now returns the next timestamp: epoch + n milliseconds for the n-th
// call.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.epoch.Add(time.Duration(c.ticks) * time.Millisecond)
	c.ticks++
	return t
}

// Reset restarts the clock at its epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
