package oracle

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ptf/internal/member"
	"github.com/roach88/ptf/internal/observe"
	"github.com/roach88/ptf/internal/txn"
)

// NoMatch is the index returned when no expected pattern was accepted
// and failure reporting was suppressed by the caller.
const NoMatch = -1

// attempt records what happened to one expected pattern during a
// matching pass, for diagnosis rendering.
type attempt struct {
	attempted bool // identity matched and the checker ran
	trace     []txn.Entry
}

// ExpectEvent waits up to timeout for an event observation matching one
// of the expected patterns, in declaration order. The first pattern
// whose identity filter matches and whose checker does not abort wins:
// its transaction is committed, the observation is consumed, and its
// index is returned.
//
// No observation within timeout, or no accepted pattern: with
// failIfNone the combined diagnosis is reported as a test failure
// (observation left queued); without it NoMatch is returned silently.
func (m *Manager) ExpectEvent(timeout time.Duration, failIfNone bool, expected ...*ExpectedEvent) (int, error) {
	return m.expectObservation(m.events, observe.KindEvent, timeout, failIfNone, eventCandidates(expected))
}

// ExpectReturn is ExpectEvent for method-return observations.
func (m *Manager) ExpectReturn(timeout time.Duration, failIfNone bool, expected ...*ExpectedReturn) (int, error) {
	return m.expectObservation(m.returns, observe.KindReturn, timeout, failIfNone, returnCandidates(expected))
}

// expectObservation is the shared matching state machine:
// WaitForObservation -> TryEachPattern -> Commit | ExhaustedPatterns.
func (m *Manager) expectObservation(
	q *observe.Queue,
	kind observe.Kind,
	timeout time.Duration,
	failIfNone bool,
	cands []candidate,
) (int, error) {
	// Peek, never consume: a rejected observation must stay queued.
	obs, ok := q.TryGet(timeout, false)
	if !ok {
		if !failIfNone {
			return NoMatch, nil
		}
		return NoMatch, m.reportFailure(renderTimeoutDiagnosis(kind, timeout, cands))
	}

	attempts := make([]attempt, len(cands))

	for i, c := range cands {
		if !c.eligible(obs) {
			continue
		}

		// Resolve the checker's convention before opening the
		// transaction: an incompatible shape is a programming error,
		// not a failed match.
		var checker *member.Checker
		if c.check != nil {
			var err error
			checker, err = member.BindChecker(c.member, c.check)
			if err != nil {
				return NoMatch, err
			}
		}

		if err := m.log.Begin(); err != nil {
			return NoMatch, err
		}

		var checkErr error
		if checker != nil {
			checkErr = checker.Invoke(obs.Target, obs.Args)
		}

		if checkErr == nil {
			if err := m.EndTransaction(true); err != nil {
				return NoMatch, err
			}
			// Consume exactly the entry that was peeked. Single
			// consumer per queue, so the head is still ours.
			q.TryGet(0, true)
			m.logger.Debug("expectation matched",
				"kind", kind.String(),
				"member", c.member.String(),
				"pattern", i,
			)
			return i, nil
		}

		if !errors.Is(checkErr, txn.ErrCheckFailed) {
			// A checker error that is not the abort signal is a
			// programming error inside the checker body.
			m.log.End(false, m.sink)
			return NoMatch, fmt.Errorf("checker for %s: %w", c.member, checkErr)
		}

		entries, err := m.log.End(false, m.sink)
		if err != nil {
			return NoMatch, err
		}
		attempts[i].attempted = true
		if failIfNone {
			// Keep the rolled-back trace only when a diagnosis may be
			// needed.
			attempts[i].trace = entries
		}
	}

	if !failIfNone {
		return NoMatch, nil
	}
	return NoMatch, m.reportFailure(renderMatchDiagnosis(kind, obs, cands, attempts))
}

// SelectSatisfiedPreConstraint tries each zero-argument predicate in
// order inside its own transaction and returns the index of the first
// one that does not abort, committing its transaction. When every
// predicate fails, the combined rolled-back traces are reported if
// printDiagnosisIfFail is set; otherwise NoMatch is returned silently.
func (m *Manager) SelectSatisfiedPreConstraint(printDiagnosisIfFail bool, constraints ...*ExpectedPreConstraint) (int, error) {
	// The failed-transaction list exists exactly when a diagnosis was
	// requested.
	var failed []attempt
	if printDiagnosisIfFail {
		failed = make([]attempt, 0, len(constraints))
	}

	for i, c := range constraints {
		if c.Check == nil {
			return NoMatch, fmt.Errorf("pre-constraint %d has no predicate", i)
		}

		if err := m.log.Begin(); err != nil {
			return NoMatch, err
		}

		checkErr := c.Check()

		if checkErr == nil {
			if err := m.EndTransaction(true); err != nil {
				return NoMatch, err
			}
			m.logger.Debug("pre-constraint satisfied", "constraint", i)
			return i, nil
		}

		if !errors.Is(checkErr, txn.ErrCheckFailed) {
			m.log.End(false, m.sink)
			return NoMatch, fmt.Errorf("pre-constraint %d predicate: %w", i, checkErr)
		}

		entries, err := m.log.End(false, m.sink)
		if err != nil {
			return NoMatch, err
		}
		if printDiagnosisIfFail {
			failed = append(failed, attempt{attempted: true, trace: entries})
		}
	}

	if !printDiagnosisIfFail {
		return NoMatch, nil
	}
	return NoMatch, m.reportFailure(renderPreConstraintDiagnosis(constraints, failed))
}

// CheckObservationTimeout verifies quiescence: it waits the full
// timeout and fails if any observation arrives on either queue within
// it. Expiry with empty queues records a checkpoint and succeeds.
func (m *Manager) CheckObservationTimeout(timeout time.Duration) error {
	if obs, ok := m.events.TryGet(timeout, false); ok {
		return m.reportFailure(fmt.Sprintf(
			"expected no observation within %v, but observed: %s", timeout, obs))
	}
	if obs, ok := m.returns.TryGet(0, false); ok {
		return m.reportFailure(fmt.Sprintf(
			"expected no observation within %v, but observed: %s", timeout, obs))
	}
	m.Checkpoint(fmt.Sprintf("no observation within %v", timeout))
	return nil
}
