package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures a scenario's complete trace for golden
// comparison. Serialized with MarshalCanonical so the bytes are
// deterministic.
type TraceSnapshot struct {
	ScenarioName string
	RunToken     string
	Trace        []ReportEntrySnapshot
}

// ReportEntrySnapshot is one trace entry in snapshot form.
type ReportEntrySnapshot struct {
	Seq         int64
	Kind        string
	Outcome     bool
	Description string
}

// toCanonicalMap converts the snapshot to the plain map shape
// MarshalCanonical accepts. Empty descriptions and tokens are omitted.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		entry := map[string]any{
			"seq":     e.Seq,
			"kind":    e.Kind,
			"outcome": e.Outcome,
		}
		if e.Description != "" {
			entry["description"] = e.Description
		}
		traceList[i] = entry
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.RunToken != "" {
		out["run_token"] = s.RunToken
	}
	return out
}

// snapshotOf builds a trace snapshot from a result.
func snapshotOf(name, runToken string, result *Result) *TraceSnapshot {
	snap := &TraceSnapshot{ScenarioName: name, RunToken: runToken}
	for _, e := range result.Trace {
		snap.Trace = append(snap.Trace, ReportEntrySnapshot{
			Seq:         e.Seq,
			Kind:        e.Kind,
			Outcome:     e.Outcome,
			Description: e.Description,
		})
	}
	return snap
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.RunToken, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already-obtained result's trace against the
// scenario's golden file.
func AssertGolden(t *testing.T, scenarioName, runToken string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalCanonical(snapshotOf(scenarioName, runToken, result).toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
