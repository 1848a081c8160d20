package observe

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ptf/internal/member"
)

type fakeSource struct{}

var testMember = member.NewEvent("Ping", reflect.TypeOf(fakeSource{}), reflect.TypeOf(0))

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func obsWithArg(n int) *Observation {
	return NewEvent(testMember, nil, []any{n}, time.Unix(int64(n), 0))
}

func TestQueue_AddTryGet(t *testing.T) {
	q := NewQueue(0, testLogger())

	q.Add(obsWithArg(1))

	got, ok := q.TryGet(0, true)
	require.True(t, ok, "take should succeed")
	assert.Equal(t, []any{1}, got.Args)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(0, testLogger())

	for i := 1; i <= 3; i++ {
		q.Add(obsWithArg(i))
	}

	for i := 1; i <= 3; i++ {
		got, ok := q.TryGet(0, true)
		require.True(t, ok)
		assert.Equal(t, []any{i}, got.Args, "entries drain in arrival order")
	}
}

func TestQueue_PeekLeavesHead(t *testing.T) {
	q := NewQueue(0, testLogger())
	q.Add(obsWithArg(1))
	q.Add(obsWithArg(2))

	// Peek repeatedly - the head never moves
	for i := 0; i < 3; i++ {
		got, ok := q.TryGet(0, false)
		require.True(t, ok)
		assert.Equal(t, []any{1}, got.Args)
	}
	assert.Equal(t, 2, q.Len())

	// Consume removes exactly the peeked head
	got, ok := q.TryGet(0, true)
	require.True(t, ok)
	assert.Equal(t, []any{1}, got.Args)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_TryGet_Empty(t *testing.T) {
	q := NewQueue(0, testLogger())

	_, ok := q.TryGet(0, true)
	assert.False(t, ok, "zero timeout polls once and returns immediately")
}

func TestQueue_TryGet_TimesOut(t *testing.T) {
	q := NewQueue(0, testLogger())

	start := time.Now()
	_, ok := q.TryGet(30*time.Millisecond, false)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestQueue_TryGet_WakesOnAdd(t *testing.T) {
	q := NewQueue(0, testLogger())

	done := make(chan *Observation, 1)
	go func() {
		if o, ok := q.TryGet(5*time.Second, true); ok {
			done <- o
		}
	}()

	// Give the consumer time to block
	time.Sleep(10 * time.Millisecond)
	q.Add(obsWithArg(7))

	select {
	case o := <-done:
		assert.Equal(t, []any{7}, o.Args)
	case <-time.After(time.Second):
		t.Fatal("TryGet did not wake on Add")
	}
}

func TestQueue_Snapshot(t *testing.T) {
	q := NewQueue(0, testLogger())
	q.Add(obsWithArg(1))
	q.Add(obsWithArg(2))

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, []any{1}, snap[0].Args)
	assert.Equal(t, []any{2}, snap[1].Args)

	// Snapshot is a copy - consuming does not affect it
	q.TryGet(0, true)
	assert.Len(t, snap, 2)
}

func TestQueue_OverCapacityStillAccepts(t *testing.T) {
	q := NewQueue(1, testLogger())
	q.Add(obsWithArg(1))
	q.Add(obsWithArg(2))

	// Capacity is advisory: both observations are retained in order
	assert.Equal(t, 2, q.Len())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(0, testLogger())

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Add(NewEvent(testMember, nil, []any{fmt.Sprintf("%d-%d", id, i)}, time.Now()))
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())

	seen := make(map[string]bool)
	for {
		o, ok := q.TryGet(0, true)
		if !ok {
			break
		}
		key := o.Args[0].(string)
		assert.False(t, seen[key], "observation delivered twice: %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
