package member

import (
	"fmt"
	"reflect"
)

// Convention identifies how a checker callable is invoked against an
// observation's actual arguments.
type Convention int

const (
	// ConventionInvalid means the checker shape is incompatible with
	// the member shape.
	ConventionInvalid Convention = iota

	// ConventionParamsDirect passes the actual arguments (inputs, then
	// by-ref outputs, then return value) as direct parameters.
	ConventionParamsDirect

	// ConventionTargetParamsDirect is ParamsDirect with the target
	// instance prepended as the first parameter.
	ConventionTargetParamsDirect

	// ConventionParamsArray passes the full actual-argument slice as a
	// single []any parameter.
	ConventionParamsArray

	// ConventionTargetParamsArray passes one []any holding the target
	// instance followed by the actual arguments.
	ConventionTargetParamsArray
)

// String returns the convention name for diagnostics.
func (c Convention) String() string {
	switch c {
	case ConventionInvalid:
		return "Invalid"
	case ConventionParamsDirect:
		return "ParametersDirect"
	case ConventionTargetParamsDirect:
		return "TargetAndParametersDirect"
	case ConventionParamsArray:
		return "ParametersArray"
	case ConventionTargetParamsArray:
		return "TargetAndParametersArray"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

var (
	anySliceType = reflect.TypeOf([]any(nil))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// Resolve computes which invocation convention applies for a checker of
// type checker against member m. Pure function of the two shapes.
//
// Resolution order:
//  1. A checker with exactly one []any parameter is array-form:
//     TargetAndParametersArray when the member requires a target,
//     ParametersArray otherwise.
//  2. Parameter count equal to the member's output count: direct form
//     if every parameter accepts the corresponding output type.
//  3. Output count plus one: the first parameter must accept the
//     declaring type and the member must require a target; the rest
//     match pairwise.
//  4. Anything else is Invalid.
//
// The checker must be a non-variadic func returning nothing or a single
// error.
func Resolve(m *Member, checker reflect.Type) Convention {
	if m == nil || checker == nil || checker.Kind() != reflect.Func || checker.IsVariadic() {
		return ConventionInvalid
	}
	if !validCheckerReturns(checker) {
		return ConventionInvalid
	}

	outs := m.Outputs()

	// Rule 1: single untyped-array parameter.
	if checker.NumIn() == 1 && checker.In(0) == anySliceType {
		if m.RequiresTarget() {
			return ConventionTargetParamsArray
		}
		return ConventionParamsArray
	}

	// Rule 2: arity matches the output shape exactly.
	if checker.NumIn() == len(outs) {
		if paramsMatch(checker, 0, outs) {
			return ConventionParamsDirect
		}
		return ConventionInvalid
	}

	// Rule 3: one extra leading parameter for the target instance.
	if checker.NumIn() == len(outs)+1 {
		if !m.RequiresTarget() {
			return ConventionInvalid
		}
		if !m.DeclaringType.AssignableTo(checker.In(0)) {
			return ConventionInvalid
		}
		if paramsMatch(checker, 1, outs) {
			return ConventionTargetParamsDirect
		}
		return ConventionInvalid
	}

	return ConventionInvalid
}

// paramsMatch reports whether each output type is accepted by the
// checker parameter at the corresponding position (offset by skip).
func paramsMatch(checker reflect.Type, skip int, outs []reflect.Type) bool {
	for i, out := range outs {
		if !out.AssignableTo(checker.In(i + skip)) {
			return false
		}
	}
	return true
}

// validCheckerReturns accepts checkers returning nothing or exactly one
// error.
func validCheckerReturns(checker reflect.Type) bool {
	switch checker.NumOut() {
	case 0:
		return true
	case 1:
		return checker.Out(0) == errorType
	default:
		return false
	}
}

// IncompatibleCheckerError reports a checker whose shape cannot be
// invoked against a member under any convention. This is a programming
// error, surfaced immediately and never retried.
type IncompatibleCheckerError struct {
	Member  *Member
	Checker reflect.Type
}

// Error implements the error interface.
func (e *IncompatibleCheckerError) Error() string {
	return fmt.Sprintf("checker %v is incompatible with member %s (outputs %v)",
		e.Checker, e.Member, e.Member.Outputs())
}
