package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_AppendOrder(t *testing.T) {
	r := NewRecorder()

	r.BeginTest("case-1")
	r.Assert(true, "first")
	r.Assume(true, "second")
	r.Checkpoint("third")
	r.Comment("fourth")
	r.EndTest()

	entries := r.Entries()
	require.Len(t, entries, 6)

	wantKinds := []string{KindBeginTest, KindAssert, KindAssume, KindCheckpoint, KindComment, KindEndTest}
	for i, e := range entries {
		assert.Equal(t, wantKinds[i], e.Kind)
		assert.Equal(t, int64(i+1), e.Seq, "sequence numbers are dense and 1-based")
	}
}

func TestRecorder_Failed(t *testing.T) {
	r := NewRecorder()
	assert.False(t, r.Failed())

	r.Assert(true, "ok")
	r.Checkpoint("informational")
	assert.False(t, r.Failed())

	r.Assume(false, "violated")
	assert.True(t, r.Failed())
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.Assert(false, "failure")
	require.True(t, r.Failed())

	r.Reset()
	assert.Empty(t, r.Entries())
	assert.False(t, r.Failed())

	r.Comment("after reset")
	assert.Equal(t, int64(1), r.Entries()[0].Seq, "sequence restarts")
}

func TestRecorder_EntriesIsCopy(t *testing.T) {
	r := NewRecorder()
	r.Comment("one")

	snap := r.Entries()
	r.Comment("two")
	assert.Len(t, snap, 1)
}

func TestMultiSink_FansOut(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	m := MultiSink{a, b}

	m.BeginTest("t")
	m.Assert(false, "failed")
	m.EndTest()

	require.Len(t, a.Entries(), 3)
	require.Len(t, b.Entries(), 3)
	assert.True(t, a.Failed())
	assert.True(t, b.Failed())
}

func TestIsFailure(t *testing.T) {
	err := &FailureError{Description: "expectation unmet"}
	assert.True(t, IsFailure(err))
	assert.Contains(t, err.Error(), "expectation unmet")

	assert.False(t, IsFailure(assert.AnError))
	assert.False(t, IsFailure(nil))
}
