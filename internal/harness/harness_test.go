package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ptf/internal/report"
)

func mustParse(t *testing.T, yaml string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(yaml))
	require.NoError(t, err)
	return s
}

func TestRun_MatchingScenario(t *testing.T) {
	s := mustParse(t, validScenarioYAML)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)

	// begin_test, the committed argument assert, end_test.
	require.Len(t, result.Trace, 3)
	assert.Equal(t, report.KindBeginTest, result.Trace[0].Kind)
	assert.Equal(t, "greeting", result.Trace[0].Description)
	assert.Equal(t, report.KindAssert, result.Trace[1].Kind)
	assert.True(t, result.Trace[1].Outcome)
	assert.Equal(t, report.KindEndTest, result.Trace[2].Kind)
}

func TestRun_SecondPatternWins(t *testing.T) {
	s := mustParse(t, `
name: second_pattern
description: "First pattern rejects on arguments, second accepts"
members:
  - name: Received
    kind: event
    params: [int]
steps:
  - feed_event:
      member: Received
      args: [10]
  - expect_event:
      patterns:
        - member: Received
          args: [5]
        - member: Received
          args: [10]
      expect_match: 1
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	// The rejected first attempt leaves no trace entries.
	require.Len(t, result.Trace, 3)
	assert.Equal(t, report.KindAssert, result.Trace[1].Kind)
	assert.True(t, result.Trace[1].Outcome)
}

func TestRun_ExpectedNoMatch(t *testing.T) {
	s := mustParse(t, `
name: no_match
description: "Observation rejected by every pattern stays queued"
members:
  - name: Received
    kind: event
    params: [int]
steps:
  - feed_event:
      member: Received
      args: [10]
  - expect_event:
      patterns:
        - member: Received
          args: [99]
      expect_match: -1
assertions:
  - type: trace_count
    kind: assert
    count: 0
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_WrongMatchIndexFails(t *testing.T) {
	s := mustParse(t, `
name: wrong_index
description: "Declared expect_match disagrees with the actual winner"
members:
  - name: Received
    kind: event
    params: [int]
steps:
  - feed_event:
      member: Received
      args: [10]
  - expect_event:
      patterns:
        - member: Received
          args: [10]
      expect_match: -1
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "pattern 0 matched, expected -1")
}

func TestRun_MethodReturn(t *testing.T) {
	s := mustParse(t, `
name: query_return
description: "Method return carries inputs, by-ref outputs, and return value"
members:
  - name: Query
    kind: method
    params: [int]
    byref: [string]
    return: bool
steps:
  - feed_return:
      member: Query
      args: [7, "result", true]
  - expect_return:
      patterns:
        - member: Query
          args: [7, "result", true]
      expect_match: 0
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CheckQuiet(t *testing.T) {
	s := mustParse(t, `
name: quiet
description: "No observations means quiescence check passes"
members:
  - name: Received
    kind: event
steps:
  - check_quiet:
      timeout_ms: 5
assertions:
  - type: trace_contains
    kind: checkpoint
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CheckQuietFailsOnPending(t *testing.T) {
	s := mustParse(t, `
name: not_quiet
description: "A queued observation fails the quiescence check"
members:
  - name: Received
    kind: event
    params: [int]
steps:
  - feed_event:
      member: Received
      args: [1]
  - check_quiet:
      timeout_ms: 1
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
}

func TestRun_CommentStep(t *testing.T) {
	s := mustParse(t, `
name: commented
description: "Comments land in the trace in step order"
members:
  - name: Received
    kind: event
steps:
  - comment: "phase one"
  - comment: "phase two"
assertions:
  - type: trace_order
    descriptions: ["phase one", "phase two"]
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_TraceAssertionFailure(t *testing.T) {
	s := mustParse(t, `
name: bad_assertion
description: "Assertion expecting an absent entry fails the run"
members:
  - name: Received
    kind: event
steps:
  - comment: "only a comment"
assertions:
  - type: trace_contains
    kind: assert
    description: "never happened"
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "trace_contains")
}

func TestRunArchived(t *testing.T) {
	archive, err := report.OpenArchive(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer archive.Close()

	s := mustParse(t, validScenarioYAML)
	s.RunToken = "golden-run"

	ctx := context.Background()
	result, runID, err := RunArchived(ctx, s, archive)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Equal(t, "golden-run", runID)

	entries, err := archive.RunEntries(ctx, runID)
	require.NoError(t, err)
	require.Len(t, entries, len(result.Trace))
	for i := range entries {
		assert.Equal(t, result.Trace[i].Kind, entries[i].Kind)
		assert.Equal(t, result.Trace[i].Description, entries[i].Description)
	}
}
