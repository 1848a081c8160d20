package member

import (
	"fmt"
	"reflect"
)

// Checker is a checker callable bound to its resolved convention.
// Construct with BindChecker at registration time; Invoke then needs no
// shape dispatch beyond the convention tag.
type Checker struct {
	fn   reflect.Value
	conv Convention
}

// BindChecker resolves the convention for fn against m and wraps the
// pair. Returns IncompatibleCheckerError when no convention applies.
func BindChecker(m *Member, fn any) (*Checker, error) {
	if fn == nil {
		return nil, fmt.Errorf("nil checker for member %s", m)
	}
	t := reflect.TypeOf(fn)
	conv := Resolve(m, t)
	if conv == ConventionInvalid {
		return nil, &IncompatibleCheckerError{Member: m, Checker: t}
	}
	return &Checker{fn: reflect.ValueOf(fn), conv: conv}, nil
}

// Convention returns the resolved convention.
func (c *Checker) Convention() Convention {
	return c.conv
}

// Invoke calls the checker with the given target and actual arguments
// under the bound convention. The returned error is whatever the
// checker body returned - typically nil or txn.ErrCheckFailed.
func (c *Checker) Invoke(target any, args []any) error {
	var in []reflect.Value

	switch c.conv {
	case ConventionParamsArray:
		if args == nil {
			args = []any{}
		}
		in = []reflect.Value{reflect.ValueOf(args)}

	case ConventionTargetParamsArray:
		combined := make([]any, 0, len(args)+1)
		combined = append(combined, target)
		combined = append(combined, args...)
		in = []reflect.Value{reflect.ValueOf(combined)}

	case ConventionParamsDirect:
		in = directValues(c.fn.Type(), 0, args)

	case ConventionTargetParamsDirect:
		in = make([]reflect.Value, 0, len(args)+1)
		in = append(in, valueFor(c.fn.Type().In(0), target))
		in = append(in, directValues(c.fn.Type(), 1, args)...)

	default:
		return fmt.Errorf("cannot invoke checker with convention %s", c.conv)
	}

	out := c.fn.Call(in)
	if len(out) == 1 {
		if err, ok := out[0].Interface().(error); ok {
			return err
		}
	}
	return nil
}

// directValues converts args to reflect values typed for the checker's
// parameters starting at offset skip.
func directValues(fnType reflect.Type, skip int, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = valueFor(fnType.In(i+skip), arg)
	}
	return in
}

// valueFor produces a call argument for the given parameter type,
// substituting a typed zero value for nil.
func valueFor(paramType reflect.Type, arg any) reflect.Value {
	if arg == nil {
		return reflect.Zero(paramType)
	}
	return reflect.ValueOf(arg)
}
