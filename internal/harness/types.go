package harness

import "github.com/roach88/ptf/internal/report"

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass indicates overall scenario success: no failed assertions in
	// the trace and no step or trace-assertion errors.
	Pass bool `json:"pass"`

	// Trace contains every report entry the run produced, in order.
	// Used for trace assertions and golden comparison.
	Trace []report.Entry `json:"trace"`

	// Errors contains step and assertion error messages.
	// Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []report.Entry{},
		Errors: []string{},
	}
}

// AddError records a validation error and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
