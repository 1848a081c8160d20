package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/ptf/internal/observe"
	"github.com/roach88/ptf/internal/txn"
)

// Diagnosis rendering for unmet expectations. Every expected pattern is
// enumerated in declaration order with its outcome; patterns whose
// checker ran and failed include the full rolled-back transaction
// trace, so a reader can see exactly why each alternative was rejected.

// renderTimeoutDiagnosis describes an expectation that saw no
// observation at all within its timeout.
func renderTimeoutDiagnosis(kind observe.Kind, timeout time.Duration, cands []candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "expected a matching %s within %v, but none was observed\n", kind, timeout)
	fmt.Fprintf(&b, "Expected one of:\n")
	for i, c := range cands {
		fmt.Fprintf(&b, "  [%d] %s\n", i, c.describe(kind))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMatchDiagnosis describes an observation that no expected
// pattern accepted.
func renderMatchDiagnosis(kind observe.Kind, obs *observe.Observation, cands []candidate, attempts []attempt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "observed %s matched none of the expected patterns\n", obs)
	for i, c := range cands {
		if attempts[i].attempted {
			fmt.Fprintf(&b, "  [%d] %s: checker rejected the observation\n", i, c.describe(kind))
			writeTrace(&b, attempts[i].trace)
			continue
		}
		fmt.Fprintf(&b, "  [%d] %s: identity mismatch\n", i, c.describe(kind))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderPreConstraintDiagnosis combines the rolled-back traces of every
// failed pre-constraint predicate.
func renderPreConstraintDiagnosis(constraints []*ExpectedPreConstraint, failed []attempt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "no pre-constraint was satisfied (%d tried)\n", len(constraints))
	for i, c := range constraints {
		desc := c.Description
		if desc == "" {
			desc = fmt.Sprintf("pre-constraint %d", i)
		}
		fmt.Fprintf(&b, "  [%d] %s\n", i, desc)
		if i < len(failed) {
			writeTrace(&b, failed[i].trace)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeTrace renders a rolled-back transaction trace, indented under
// its pattern line.
func writeTrace(b *strings.Builder, trace []txn.Entry) {
	if len(trace) == 0 {
		fmt.Fprintf(b, "      (empty transaction)\n")
		return
	}
	for _, e := range trace {
		fmt.Fprintf(b, "      %s\n", e.String())
	}
}
