package observe

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/ptf/internal/member"
)

// Kind distinguishes between observation kinds.
type Kind int

const (
	// KindEvent represents a witnessed event notification.
	KindEvent Kind = iota + 1
	// KindReturn represents a witnessed method return.
	KindReturn
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindReturn:
		return "return"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Observation is a timestamped record that a specific event fired or a
// specific method returned, with its actual arguments.
//
// Identity is (Member, Target). Target is nil for static members and
// for members declared on adapter types.
//
// Observations are immutable after creation and owned by the queue
// until consumed.
type Observation struct {
	Kind      Kind
	Member    *member.Member
	Target    any
	Args      []any
	Timestamp time.Time
}

// NewEvent creates an event observation stamped with the given time.
func NewEvent(m *member.Member, target any, args []any, at time.Time) *Observation {
	return &Observation{
		Kind:      KindEvent,
		Member:    m,
		Target:    target,
		Args:      args,
		Timestamp: at,
	}
}

// NewReturn creates a return observation stamped with the given time.
// Args carries the by-ref outputs in declaration order followed by the
// return value, matching the member's output shape.
func NewReturn(m *member.Member, target any, args []any, at time.Time) *Observation {
	return &Observation{
		Kind:      KindReturn,
		Member:    m,
		Target:    target,
		Args:      args,
		Timestamp: at,
	}
}

// String renders the observation for diagnostics.
func (o *Observation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", o.Kind, o.Member.Name)
	if o.Target != nil {
		fmt.Fprintf(&b, " on %v", o.Target)
	}
	fmt.Fprintf(&b, " args=%v", o.Args)
	return b.String()
}
