package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestTraceSnapshot_CanonicalMap(t *testing.T) {
	snap := &TraceSnapshot{
		ScenarioName: "sample",
		RunToken:     "run-1",
		Trace: []ReportEntrySnapshot{
			{Seq: 1, Kind: "begin_test", Outcome: true, Description: "sample"},
			{Seq: 2, Kind: "end_test", Outcome: true},
		},
	}

	got, err := MarshalCanonical(snap.toCanonicalMap())
	require.NoError(t, err)

	want := `{"run_token":"run-1","scenario_name":"sample",` +
		`"trace":[{"description":"sample","kind":"begin_test","outcome":true,"seq":1},` +
		`{"kind":"end_test","outcome":true,"seq":2}]}`
	assert.Equal(t, want, string(got))
}
