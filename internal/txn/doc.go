// Package txn implements the transaction log that isolates the side
// effects of one matching attempt.
//
// While a transaction is active, assert/assume/checkpoint/comment calls
// and variable bindings append entries to the log instead of acting on
// the external report immediately. Committing replays every entry to
// the reporting sink in append order; rolling back undoes only the
// variable bindings and discards the rest. Either way the attempt
// leaves no trace on the report unless it was accepted.
//
// The abort signal is an ordinary sentinel error, ErrCheckFailed: a
// checker body that hits a failed assert returns it, the matcher
// catches it at the attempt boundary and rolls back. It is control
// flow, not a user-visible failure, and never escapes one attempt.
//
// At most one transaction may be active per test manager at a time.
// Nesting is a programming error and fails fast.
package txn
