package report

import (
	"errors"
	"fmt"
)

// Sink is the test-report destination consumed by the oracle.
//
// Assert and Assume receive the evaluated condition together with a
// human-readable description; Checkpoint and Comment are informational.
// BeginTest/EndTest bracket one test case.
type Sink interface {
	Assert(condition bool, description string)
	Assume(condition bool, description string)
	Checkpoint(description string)
	Comment(description string)
	BeginTest(name string)
	EndTest()
}

// Entry kind names used by recording sinks and the transaction log
// replay. These are stable strings - they appear in golden traces and
// in the archive schema.
const (
	KindAssert     = "assert"
	KindAssume     = "assume"
	KindCheckpoint = "checkpoint"
	KindComment    = "comment"
	KindBeginTest  = "begin_test"
	KindEndTest    = "end_test"
)

// FailureError is the dedicated failure signal raised instead of (or in
// addition to) sink forwarding when the manager is configured to prefer
// errors over direct reporting.
type FailureError struct {
	Description string
}

// Error implements the error interface.
func (e *FailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Description)
}

// IsFailure returns true if the error is a reported test failure.
// Uses errors.As to handle wrapped errors.
func IsFailure(err error) bool {
	var fe *FailureError
	return errors.As(err, &fe)
}

// MultiSink forwards every call to each wrapped sink in order.
type MultiSink []Sink

// Assert implements Sink.
func (m MultiSink) Assert(condition bool, description string) {
	for _, s := range m {
		s.Assert(condition, description)
	}
}

// Assume implements Sink.
func (m MultiSink) Assume(condition bool, description string) {
	for _, s := range m {
		s.Assume(condition, description)
	}
}

// Checkpoint implements Sink.
func (m MultiSink) Checkpoint(description string) {
	for _, s := range m {
		s.Checkpoint(description)
	}
}

// Comment implements Sink.
func (m MultiSink) Comment(description string) {
	for _, s := range m {
		s.Comment(description)
	}
}

// BeginTest implements Sink.
func (m MultiSink) BeginTest(name string) {
	for _, s := range m {
		s.BeginTest(name)
	}
}

// EndTest implements Sink.
func (m MultiSink) EndTest() {
	for _, s := range m {
		s.EndTest()
	}
}
