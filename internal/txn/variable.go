package txn

import (
	"errors"
	"fmt"
)

// Variable binding errors.
var (
	// ErrNotBound is returned when reading a variable that has no
	// value. Reading an unbound variable is a contract violation.
	ErrNotBound = errors.New("variable not bound")

	// ErrAlreadyBound is returned when binding a variable that already
	// holds a value. A variable binds at most once per transaction
	// scope; only a rollback makes it bindable again.
	ErrAlreadyBound = errors.New("variable already bound")
)

// Variable is a named cell that a checker can bind to an observed
// value.
//
// Binding inside an active transaction records an undo entry, so a
// rollback restores the variable to unbound; the new value is visible
// to reads within the same attempt even before commit. Binding outside
// a transaction is immediate and permanent.
type Variable struct {
	name  string
	log   *Log
	bound bool
	value any
}

// NewVariable creates an unbound variable attached to this manager's
// transaction log.
func (l *Log) NewVariable(name string) *Variable {
	return &Variable{name: name, log: l}
}

// Name returns the variable's name.
func (v *Variable) Name() string {
	return v.name
}

// Bound reports whether the variable currently holds a value.
func (v *Variable) Bound() bool {
	return v.bound
}

// Value returns the bound value, or ErrNotBound.
func (v *Variable) Value() (any, error) {
	if !v.bound {
		return nil, fmt.Errorf("variable %s: %w", v.name, ErrNotBound)
	}
	return v.value, nil
}

// Bind sets the variable's value. Inside an active transaction the
// binding is recorded for possible rollback; outside, it takes effect
// immediately and permanently.
//
// Returns ErrAlreadyBound if the variable already holds a value.
func (v *Variable) Bind(value any) error {
	if v.bound {
		return fmt.Errorf("variable %s: %w", v.name, ErrAlreadyBound)
	}
	v.bound = true
	v.value = value
	if v.log != nil && v.log.active {
		v.log.recordBinding(v, value)
	}
	return nil
}

// unbind reverts the variable to the unbound state. Called by rollback.
func (v *Variable) unbind() {
	v.bound = false
	v.value = nil
}
