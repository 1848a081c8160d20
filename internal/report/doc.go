// Package report defines the reporting-sink collaborator contract and
// the sink implementations shipped with the oracle.
//
// The engine never writes to a test report directly: non-transactional
// calls and committed transaction entries are forwarded to a Sink. The
// package provides a structured-log sink for interactive runs, an
// in-memory Recorder for the harness and for tests, a fan-out MultiSink,
// and a SQLite-backed Archive that keeps a durable record of past test
// runs for later inspection.
//
// Sinks must tolerate concurrent producers only where documented; the
// engine itself forwards from a single logical flow at a time.
package report
