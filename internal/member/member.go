package member

import (
	"fmt"
	"reflect"
)

// Member describes the declared shape of an observable event or method.
//
// Identity is the descriptor pointer: registration builds each member
// exactly once and every expected pattern and observation refers to the
// same *Member. Descriptors are immutable after construction.
type Member struct {
	// Name identifies the member for diagnostics (e.g. "MessageReceived").
	Name string

	// DeclaringType is the type that declares the member.
	DeclaringType reflect.Type

	// Static is true for members not bound to an instance.
	Static bool

	// Params holds the ordered input-parameter types.
	Params []reflect.Type

	// ByRef holds the types of by-reference/output parameters in
	// declaration order.
	ByRef []reflect.Type

	// Return is the return type, or nil for void members.
	Return reflect.Type
}

// NewEvent creates a descriptor for an event member. Events carry only
// input parameters - no by-ref outputs and no return value.
func NewEvent(name string, declaring reflect.Type, params ...reflect.Type) *Member {
	return &Member{
		Name:          name,
		DeclaringType: declaring,
		Params:        params,
	}
}

// NewMethod creates a descriptor for a method member.
// ret may be nil for void methods.
func NewMethod(name string, declaring reflect.Type, params, byRef []reflect.Type, ret reflect.Type) *Member {
	return &Member{
		Name:          name,
		DeclaringType: declaring,
		Params:        params,
		ByRef:         byRef,
		Return:        ret,
	}
}

// Outputs returns the member's output shape: the input parameters, then
// the by-ref outputs in declaration order, then the return type if the
// member is non-void. This is the ordered argument list a direct-form
// checker receives, and the shape an observation's actual arguments
// must follow.
func (m *Member) Outputs() []reflect.Type {
	out := make([]reflect.Type, 0, len(m.Params)+len(m.ByRef)+1)
	out = append(out, m.Params...)
	out = append(out, m.ByRef...)
	if m.Return != nil {
		out = append(out, m.Return)
	}
	return out
}

// RequiresTarget reports whether invoking a checker against this member
// needs a target instance: the member is instance-scoped and its
// declaring type is not classified as an adapter.
func (m *Member) RequiresTarget() bool {
	return !m.Static && !IsAdapter(m.DeclaringType)
}

// String renders the member as DeclaringType.Name for diagnostics.
func (m *Member) String() string {
	if m.DeclaringType != nil {
		return fmt.Sprintf("%s.%s", m.DeclaringType.Name(), m.Name)
	}
	return m.Name
}
