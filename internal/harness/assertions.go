package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/ptf/internal/report"
)

// AssertionError is returned when a trace assertion fails. It carries
// the full trace so the failure message is debuggable on its own.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []report.Entry
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, entry := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %q outcome=%v\n", entry.Seq, entry.Kind, entry.Description, entry.Outcome)
	}

	return buf.String()
}

// entryMatches reports whether the entry satisfies the assertion's
// kind/description filter.
func entryMatches(e report.Entry, a Assertion) bool {
	if a.Kind != "" && e.Kind != a.Kind {
		return false
	}
	if a.Description != "" && e.Description != a.Description {
		return false
	}
	return true
}

// assertTraceContains checks that some entry matches the assertion's
// filter, and its outcome when one is required.
func assertTraceContains(trace []report.Entry, a Assertion) error {
	for _, e := range trace {
		if !entryMatches(e, a) {
			continue
		}
		if a.Outcome != nil && e.Outcome != *a.Outcome {
			continue
		}
		return nil
	}

	want := describeFilter(a)
	if a.Outcome != nil {
		want += fmt.Sprintf(" with outcome %v", *a.Outcome)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: want,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that entries with the given descriptions
// appear in order. Intervening entries are allowed.
func assertTraceOrder(trace []report.Entry, a Assertion) error {
	positions := make(map[string]int64, len(a.Descriptions))

	for _, e := range trace {
		for _, want := range a.Descriptions {
			if e.Description == want && positions[want] == 0 {
				positions[want] = e.Seq
			}
		}
	}

	for _, want := range a.Descriptions {
		if positions[want] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all entries present: %v", a.Descriptions),
				Actual:   fmt.Sprintf("missing entry: %q", want),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Descriptions); i++ {
		prev, curr := a.Descriptions[i-1], a.Descriptions[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("entries in order: %v", a.Descriptions),
				Actual: fmt.Sprintf("%q (seq %d) should precede %q (seq %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the exact number of entries matching the
// filter.
func assertTraceCount(trace []report.Entry, a Assertion) error {
	count := 0
	for _, e := range trace {
		if entryMatches(e, a) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d entries matching %s", a.Count, describeFilter(a)),
			Actual:   fmt.Sprintf("%d entries", count),
			Trace:    trace,
		}
	}
	return nil
}

// describeFilter renders the kind/description filter for messages.
func describeFilter(a Assertion) string {
	switch {
	case a.Kind != "" && a.Description != "":
		return fmt.Sprintf("%s entry %q", a.Kind, a.Description)
	case a.Kind != "":
		return fmt.Sprintf("%s entry", a.Kind)
	default:
		return fmt.Sprintf("entry %q", a.Description)
	}
}

// EvaluateAssertions evaluates all trace assertions and returns the
// failure messages.
func EvaluateAssertions(trace []report.Entry, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
