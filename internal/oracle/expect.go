package oracle

import (
	"fmt"

	"github.com/roach88/ptf/internal/member"
	"github.com/roach88/ptf/internal/observe"
)

// ExpectedEvent is a declarative pattern an event observation is
// matched against: an identity filter plus an optional checker.
//
// Target nil means "don't care" - the pattern matches the member on any
// target, the usual case for adapter-bound members. Check, when set,
// must be a callable compatible with the member's shape under one of
// the four calling conventions.
//
// Patterns are supplied by the caller and never mutated by the engine.
type ExpectedEvent struct {
	Member *member.Member
	Target any
	Check  any
}

// ExpectedReturn is the method-return counterpart of ExpectedEvent.
// The checker sees the by-ref outputs in declaration order followed by
// the return value.
type ExpectedReturn struct {
	Member *member.Member
	Target any
	Check  any
}

// ExpectedPreConstraint carries only a zero-argument predicate - no
// identity filter and no target. The predicate performs its checks
// through the manager's transactional surface and returns
// txn.ErrCheckFailed (typically via Assert) when unsatisfied.
type ExpectedPreConstraint struct {
	Description string
	Check       func() error
}

// candidate is the matcher's uniform view of an expected pattern.
type candidate struct {
	member *member.Member
	target any
	check  any
}

func eventCandidates(expected []*ExpectedEvent) []candidate {
	out := make([]candidate, len(expected))
	for i, e := range expected {
		out[i] = candidate{member: e.Member, target: e.Target, check: e.Check}
	}
	return out
}

func returnCandidates(expected []*ExpectedReturn) []candidate {
	out := make([]candidate, len(expected))
	for i, e := range expected {
		out[i] = candidate{member: e.Member, target: e.Target, check: e.Check}
	}
	return out
}

// eligible reports whether the candidate's identity filter matches the
// observation: same member descriptor and same target, or the filter
// omits the target.
func (c candidate) eligible(obs *observe.Observation) bool {
	if c.member != obs.Member {
		return false
	}
	return c.target == nil || c.target == obs.Target
}

// describe renders the candidate's identity filter for diagnostics.
func (c candidate) describe(kind observe.Kind) string {
	s := fmt.Sprintf("%s %s", kind, c.member)
	if c.target != nil {
		s += fmt.Sprintf(" on %v", c.target)
	}
	if c.check != nil {
		s += " with checker"
	}
	return s
}
