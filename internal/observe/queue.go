package observe

import (
	"log/slog"
	"sync"
	"time"
)

// Queue is a thread-safe FIFO of observations with a timed, peekable
// take operation.
//
// Thread-safety model:
//   - Add(): safe from any goroutine (adapter threads)
//   - TryGet(): single consumer - the expectation matcher
//   - Snapshot()/Len(): safe from any goroutine
//
// The queue uses a buffered signal channel (size 1) so TryGet wakes the
// instant a producer adds an entry rather than at the end of its
// timeout. Multiple signals coalesce; the consumer re-checks the queue
// under the lock after every wakeup.
//
// INVARIANTS:
//   - Entries drain in strict arrival order
//   - A peek (consume=false) never removes the head
//   - A consume removes exactly the current head
type Queue struct {
	mu       sync.Mutex
	entries  []*Observation
	capacity int // 0 = unbounded
	signal   chan struct{}
	logger   *slog.Logger
}

// NewQueue creates an empty queue. capacity limits the advisory bound;
// zero means unbounded. Adds beyond the bound are accepted but logged,
// since dropping an observation would silently break expectation
// matching for the rest of the test case.
func NewQueue(capacity int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		entries:  make([]*Observation, 0, 16),
		capacity: capacity,
		signal:   make(chan struct{}, 1),
		logger:   logger,
	}
}

// Add appends an observation to the tail and wakes any waiter.
// Never blocks. Safe from any goroutine.
func (q *Queue) Add(o *Observation) {
	q.mu.Lock()
	if q.capacity > 0 && len(q.entries) >= q.capacity {
		q.logger.Warn("observation queue over capacity",
			"capacity", q.capacity,
			"queued", len(q.entries),
			"observation", o.String(),
		)
	}
	q.entries = append(q.entries, o)
	q.mu.Unlock()

	// Non-blocking send - buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryGet waits up to timeout for a head entry to exist and returns it.
// If consume is true the head is removed; if false it is left in place
// (peek). A timeout of zero polls once without blocking.
//
// Returns (nil, false) if no entry arrives within the timeout.
func (q *Queue) TryGet(timeout time.Duration, consume bool) (*Observation, bool) {
	deadline := time.Now().Add(timeout)

	for {
		if o, ok := q.take(consume); ok {
			return o, true
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}

		timer := time.NewTimer(remaining)
		select {
		case <-q.signal:
			timer.Stop()
			// Re-check under the lock - signals coalesce
		case <-timer.C:
			return nil, false
		}
	}
}

// take returns the head entry, removing it when consume is true.
func (q *Queue) take(consume bool) (*Observation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return nil, false
	}

	o := q.entries[0]
	if consume {
		// Nil out the slot so the backing array does not retain the
		// observation after removal.
		q.entries[0] = nil
		if len(q.entries) == 1 {
			q.entries = q.entries[:0]
		} else {
			q.entries = q.entries[1:]
		}
	}
	return o, true
}

// Len returns the current number of queued observations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns a copy of all currently queued observations in
// arrival order. For diagnostics only - the copy does not track
// subsequent mutation.
func (q *Queue) Snapshot() []*Observation {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Observation, len(q.entries))
	copy(out, q.entries)
	return out
}
