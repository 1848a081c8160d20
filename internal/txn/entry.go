package txn

import "fmt"

// EntryKind identifies the action a log entry buffers.
type EntryKind int

const (
	// EntryAssert buffers an assertion with its evaluated outcome.
	EntryAssert EntryKind = iota + 1
	// EntryAssume buffers an assumption with its evaluated outcome.
	EntryAssume
	// EntryCheckpoint buffers an informational checkpoint.
	EntryCheckpoint
	// EntryComment buffers an informational comment.
	EntryComment
	// EntryVariableBound records a variable binding so rollback can
	// undo it.
	EntryVariableBound
)

// String returns the lowercase kind name used in diagnostics.
func (k EntryKind) String() string {
	switch k {
	case EntryAssert:
		return "assert"
	case EntryAssume:
		return "assume"
	case EntryCheckpoint:
		return "checkpoint"
	case EntryComment:
		return "comment"
	case EntryVariableBound:
		return "bind"
	default:
		return fmt.Sprintf("entry(%d)", int(k))
	}
}

// Entry is one buffered action in append order.
type Entry struct {
	Kind        EntryKind
	Outcome     bool // meaningful for Assert and Assume only
	Description string

	// Variable and Value are set for EntryVariableBound.
	Variable *Variable
	Value    any
}

// String renders the entry for diagnosis traces.
func (e Entry) String() string {
	switch e.Kind {
	case EntryAssert, EntryAssume:
		verdict := "failed"
		if e.Outcome {
			verdict = "passed"
		}
		return fmt.Sprintf("%s %s: %s", e.Kind, verdict, e.Description)
	case EntryVariableBound:
		return fmt.Sprintf("bind %s = %v", e.Variable.Name(), e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Description)
	}
}
