package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ptf/internal/report"
)

func sampleTrace() []report.Entry {
	return []report.Entry{
		{Seq: 1, Kind: report.KindBeginTest, Outcome: true, Description: "case"},
		{Seq: 2, Kind: report.KindAssert, Outcome: true, Description: "greeting observed"},
		{Seq: 3, Kind: report.KindComment, Outcome: true, Description: "phase two"},
		{Seq: 4, Kind: report.KindAssert, Outcome: false, Description: "farewell observed"},
		{Seq: 5, Kind: report.KindEndTest, Outcome: true},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()
	fail := false

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{
			name:      "by description",
			assertion: Assertion{Type: AssertTraceContains, Description: "greeting observed"},
		},
		{
			name:      "by kind",
			assertion: Assertion{Type: AssertTraceContains, Kind: report.KindComment},
		},
		{
			name:      "kind and description",
			assertion: Assertion{Type: AssertTraceContains, Kind: report.KindAssert, Description: "greeting observed"},
		},
		{
			name:      "required outcome",
			assertion: Assertion{Type: AssertTraceContains, Description: "farewell observed", Outcome: &fail},
		},
		{
			name:      "absent description",
			assertion: Assertion{Type: AssertTraceContains, Description: "never happened"},
			wantErr:   true,
		},
		{
			name:      "outcome mismatch",
			assertion: Assertion{Type: AssertTraceContains, Description: "farewell observed", Outcome: boolPtr(true)},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTraceContains(trace, tt.assertion)
			if tt.wantErr {
				require.Error(t, err)
				var ae *AssertionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, AssertTraceContains, ae.Type)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	err := assertTraceOrder(trace, Assertion{
		Type:         AssertTraceOrder,
		Descriptions: []string{"greeting observed", "phase two", "farewell observed"},
	})
	assert.NoError(t, err)

	err = assertTraceOrder(trace, Assertion{
		Type:         AssertTraceOrder,
		Descriptions: []string{"farewell observed", "greeting observed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should precede")

	err = assertTraceOrder(trace, Assertion{
		Type:         AssertTraceOrder,
		Descriptions: []string{"greeting observed", "missing entry"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing entry")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{
		Type: AssertTraceCount, Kind: report.KindAssert, Count: 2,
	}))
	assert.NoError(t, assertTraceCount(trace, Assertion{
		Type: AssertTraceCount, Description: "phase two", Count: 1,
	}))
	assert.NoError(t, assertTraceCount(trace, Assertion{
		Type: AssertTraceCount, Kind: report.KindAssume, Count: 0,
	}))

	err := assertTraceCount(trace, Assertion{
		Type: AssertTraceCount, Kind: report.KindAssert, Count: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 entries")
}

func TestEvaluateAssertions(t *testing.T) {
	trace := sampleTrace()

	msgs := EvaluateAssertions(trace, []Assertion{
		{Type: AssertTraceContains, Description: "greeting observed"},
		{Type: AssertTraceCount, Kind: report.KindAssert, Count: 5},
		{Type: "bogus"},
	})

	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "trace_count")
	assert.Contains(t, msgs[1], "unknown assertion type")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains, Description: "absent",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Full trace:")
	assert.Contains(t, err.Error(), "greeting observed")
}

func boolPtr(b bool) *bool { return &b }
