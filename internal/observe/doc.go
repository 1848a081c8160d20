// Package observe implements the observation side of the test oracle.
//
// Instrumented adapters witness real events and method returns on their
// own threads and push them here as timestamped Observations. The
// expectation matcher is the sole consumer per queue and drains entries
// in strict arrival order.
//
// ARCHITECTURE:
//
// Single-Consumer Timed Queue:
// Producers may call Add concurrently; TryGet is called from the test
// execution thread only. A buffered signal channel wakes a timed wait
// the instant an entry arrives, so a waiter never sleeps out a full
// timeout when the observation it needs is already queued.
//
// Peek vs consume:
// TryGet with consume=false leaves the head in place. The matcher peeks
// first, evaluates candidate patterns, and consumes the head only after
// a pattern is accepted. A rejected observation therefore stays queued.
package observe
