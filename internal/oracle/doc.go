// Package oracle implements the test manager - the runtime core of the
// conformance-test oracle.
//
// The manager owns one observation queue for events and one for method
// returns, the transaction log, the adapter registry, and the bridge to
// the external reporting sink. Adapter-side producers push observations
// from their own threads; ExpectEvent/ExpectReturn run on the test
// execution thread and are the sole consumers.
//
// ARCHITECTURE:
//
// Matching with transactional rollback:
// Each expectation call peeks one observation and tries the expected
// patterns in declaration order. Every eligible pattern's checker runs
// inside its own transaction; the first checker that does not abort
// with txn.ErrCheckFailed wins, its transaction is committed and the
// observation consumed. Rejected attempts are rolled back, so neither
// report output nor variable bindings leak from a candidate that was
// not accepted. When every pattern is rejected the rolled-back
// transaction traces are combined into one diagnosis enumerating, in
// order, why each alternative failed.
//
// Failure policy:
// Unmet expectations either go to the reporting sink as a failed
// assertion or, when the manager is configured with WithRaiseOnFailure,
// come back to the caller as a *report.FailureError. The policy is
// manager-wide, not per call.
package oracle
