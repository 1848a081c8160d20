package txn

import (
	"errors"
	"fmt"

	"github.com/roach88/ptf/internal/report"
)

// Transaction state errors. These are programming errors: they surface
// immediately and are never retried.
var (
	// ErrTransactionActive is returned by Begin when a transaction is
	// already open. Nesting is forbidden.
	ErrTransactionActive = errors.New("transaction already active")

	// ErrNoTransaction is returned by End when no transaction is open.
	ErrNoTransaction = errors.New("no active transaction")
)

// ErrCheckFailed is the transaction-scoped abort signal. Assert and
// Assume return it (wrapped with the failing description) when their
// condition is false inside an active transaction. The expectation
// matcher treats it as "this candidate does not match" - it never
// reaches the reporting sink and never escapes one matching attempt.
var ErrCheckFailed = errors.New("transactional check failed")

// Log is an ordered, in-memory record of report actions performed while
// a checker runs.
//
// Lifecycle: Begin opens an empty log; Assert/Assume/Checkpoint/Comment
// and variable bindings append while active; End(commit) replays to the
// sink or End(rollback) unwinds bindings, then clears the log.
//
// Not safe for concurrent use - transaction handling runs entirely on
// the calling thread.
type Log struct {
	active  bool
	entries []Entry
}

// NewLog creates an inactive, empty log.
func NewLog() *Log {
	return &Log{}
}

// Begin opens a new transaction. Fails fast with ErrTransactionActive
// if one is already open.
func (l *Log) Begin() error {
	if l.active {
		return ErrTransactionActive
	}
	l.active = true
	l.entries = l.entries[:0]
	return nil
}

// Active reports whether a transaction is open.
func (l *Log) Active() bool {
	return l.active
}

// End closes the active transaction and returns the entries it held.
//
// If commit is true, every entry is replayed to sink in append order:
// assert/assume entries replay as real assertions and assumptions,
// checkpoint/comment entries replay as informational output, and each
// variable binding replays as a comment describing it.
//
// If commit is false, only variable bindings are processed - each one
// restores its variable to unbound - and all other entries are
// discarded without replay.
//
// Returns ErrNoTransaction if no transaction is open.
func (l *Log) End(commit bool, sink report.Sink) ([]Entry, error) {
	if !l.active {
		return nil, ErrNoTransaction
	}

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)

	l.active = false
	l.entries = l.entries[:0]

	if commit {
		replay(entries, sink)
	} else {
		for _, e := range entries {
			if e.Kind == EntryVariableBound {
				e.Variable.unbind()
			}
		}
	}

	return entries, nil
}

// replay forwards committed entries to the reporting sink in their
// original append order.
func replay(entries []Entry, sink report.Sink) {
	for _, e := range entries {
		switch e.Kind {
		case EntryAssert:
			sink.Assert(e.Outcome, e.Description)
		case EntryAssume:
			sink.Assume(e.Outcome, e.Description)
		case EntryCheckpoint:
			sink.Checkpoint(e.Description)
		case EntryComment:
			sink.Comment(e.Description)
		case EntryVariableBound:
			sink.Comment(fmt.Sprintf("variable %s bound to %v", e.Variable.Name(), e.Value))
		}
	}
}

// Entries returns a copy of the entries appended so far.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Assert appends an assertion entry, evaluating the condition eagerly.
// A false condition returns ErrCheckFailed wrapped with the description
// so the checker body can short-circuit without touching the report.
//
// Returns ErrNoTransaction if no transaction is open.
func (l *Log) Assert(condition bool, description string) error {
	if !l.active {
		return ErrNoTransaction
	}
	l.entries = append(l.entries, Entry{Kind: EntryAssert, Outcome: condition, Description: description})
	if !condition {
		return fmt.Errorf("assert %q: %w", description, ErrCheckFailed)
	}
	return nil
}

// Assume appends an assumption entry. Like Assert, a false condition
// aborts the attempt with ErrCheckFailed.
func (l *Log) Assume(condition bool, description string) error {
	if !l.active {
		return ErrNoTransaction
	}
	l.entries = append(l.entries, Entry{Kind: EntryAssume, Outcome: condition, Description: description})
	if !condition {
		return fmt.Errorf("assume %q: %w", description, ErrCheckFailed)
	}
	return nil
}

// Checkpoint appends an informational checkpoint entry.
// Caller must hold an active transaction.
func (l *Log) Checkpoint(description string) {
	l.entries = append(l.entries, Entry{Kind: EntryCheckpoint, Description: description})
}

// Comment appends an informational comment entry.
// Caller must hold an active transaction.
func (l *Log) Comment(description string) {
	l.entries = append(l.entries, Entry{Kind: EntryComment, Description: description})
}

// recordBinding appends a variable-binding entry so rollback can undo
// the bind. Called by Variable.Bind while the log is active.
func (l *Log) recordBinding(v *Variable, value any) {
	l.entries = append(l.entries, Entry{Kind: EntryVariableBound, Variable: v, Value: value})
}
