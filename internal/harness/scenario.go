package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a declarative conformance scenario: the observable
// members of the system under test, a sequence of steps feeding and
// expecting observations, and assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden
	// trace file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Members declares the observable events and methods the steps
	// refer to. All members are declared on the scenario's adapter, so
	// patterns never need target instances.
	Members []MemberDecl `yaml:"members"`

	// Steps is the scenario body, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace. Optional - expect steps
	// already validate match outcomes inline.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunToken is an optional fixed token for archived runs. Empty
	// defaults to a deterministic test token so golden files never
	// churn.
	RunToken string `yaml:"run_token,omitempty"`
}

// MemberDecl declares one observable member by name and shape.
// Parameter types are named: "int", "string", or "bool".
type MemberDecl struct {
	// Name identifies the member within the scenario.
	Name string `yaml:"name"`

	// Kind is "event" or "method".
	Kind string `yaml:"kind"`

	// Params lists the input-parameter type names in order.
	Params []string `yaml:"params,omitempty"`

	// ByRef lists the by-reference output type names (methods only).
	ByRef []string `yaml:"byref,omitempty"`

	// Return is the return type name, empty for void (methods only).
	Return string `yaml:"return,omitempty"`
}

// Member kind constants.
const (
	MemberEvent  = "event"
	MemberMethod = "method"
)

// Step holds exactly one directive. The YAML key selects the step type.
type Step struct {
	// FeedEvent records an event observation.
	FeedEvent *FeedStep `yaml:"feed_event,omitempty"`

	// FeedReturn records a method-return observation. Args carries the
	// inputs, then the by-ref outputs, then the return value.
	FeedReturn *FeedStep `yaml:"feed_return,omitempty"`

	// ExpectEvent matches the next event observation against patterns.
	ExpectEvent *ExpectStep `yaml:"expect_event,omitempty"`

	// ExpectReturn matches the next method-return observation.
	ExpectReturn *ExpectStep `yaml:"expect_return,omitempty"`

	// CheckQuiet verifies no observation arrives within the timeout.
	CheckQuiet *QuietStep `yaml:"check_quiet,omitempty"`

	// Comment records an informational comment in the trace.
	Comment string `yaml:"comment,omitempty"`
}

// FeedStep records one observation.
type FeedStep struct {
	// Member names a declared member.
	Member string `yaml:"member"`

	// Args are the actual arguments in the member's output order.
	Args []any `yaml:"args"`
}

// ExpectStep matches the head observation against patterns in order.
type ExpectStep struct {
	// Patterns are tried in declaration order; first accepted wins.
	Patterns []Pattern `yaml:"patterns"`

	// TimeoutMS bounds the wait for an observation. Zero polls once.
	TimeoutMS int `yaml:"timeout_ms,omitempty"`

	// ExpectMatch is the expected winning pattern index, or -1 for
	// expected no-match. Nil means "any non-negative index passes".
	ExpectMatch *int `yaml:"expect_match,omitempty"`

	// FailIfNone controls whether an unmatched observation is reported
	// as a test failure with a diagnosis. Defaults to false: scenarios
	// state the expected index explicitly via expect_match.
	FailIfNone bool `yaml:"fail_if_none,omitempty"`
}

// Pattern is one expected-observation pattern.
type Pattern struct {
	// Member names a declared member.
	Member string `yaml:"member"`

	// Args, when present, attaches a checker asserting the observed
	// arguments equal these values. Absent means identity-only match.
	Args []any `yaml:"args,omitempty"`
}

// QuietStep verifies quiescence.
type QuietStep struct {
	TimeoutMS int `yaml:"timeout_ms"`
}

// Assertion validates the final trace.
type Assertion struct {
	// Type is trace_contains, trace_order, or trace_count.
	Type string `yaml:"type"`

	// Kind filters entries by report kind (assert, assume, checkpoint,
	// comment, begin_test, end_test).
	Kind string `yaml:"kind,omitempty"`

	// Description is the expected entry description
	// (trace_contains, trace_count).
	Description string `yaml:"description,omitempty"`

	// Outcome, when set, requires the matched entry's outcome
	// (trace_contains only).
	Outcome *bool `yaml:"outcome,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Descriptions is the expected order of entry descriptions
	// (trace_order). Entries may be interleaved with others.
	Descriptions []string `yaml:"descriptions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos surface as load errors, not silent no-ops.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and cross-references.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Members) == 0 {
		return fmt.Errorf("members list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	declared := make(map[string]MemberDecl, len(s.Members))
	for i, m := range s.Members {
		if m.Name == "" {
			return fmt.Errorf("members[%d]: name is required", i)
		}
		if _, dup := declared[m.Name]; dup {
			return fmt.Errorf("members[%d]: duplicate member name %q", i, m.Name)
		}
		switch m.Kind {
		case MemberEvent:
			if len(m.ByRef) > 0 || m.Return != "" {
				return fmt.Errorf("members[%d] (%s): events cannot have byref or return", i, m.Name)
			}
		case MemberMethod:
		default:
			return fmt.Errorf("members[%d] (%s): kind must be %q or %q", i, m.Name, MemberEvent, MemberMethod)
		}
		for _, tn := range m.Params {
			if !validTypeName(tn) {
				return fmt.Errorf("members[%d] (%s): unknown parameter type %q", i, m.Name, tn)
			}
		}
		for _, tn := range m.ByRef {
			if !validTypeName(tn) {
				return fmt.Errorf("members[%d] (%s): unknown byref type %q", i, m.Name, tn)
			}
		}
		if m.Return != "" && !validTypeName(m.Return) {
			return fmt.Errorf("members[%d] (%s): unknown return type %q", i, m.Name, m.Return)
		}
		declared[m.Name] = m
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step, declared); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateStep checks that exactly one directive is set and member
// references resolve.
func validateStep(index int, step Step, declared map[string]MemberDecl) error {
	directives := 0
	if step.FeedEvent != nil {
		directives++
	}
	if step.FeedReturn != nil {
		directives++
	}
	if step.ExpectEvent != nil {
		directives++
	}
	if step.ExpectReturn != nil {
		directives++
	}
	if step.CheckQuiet != nil {
		directives++
	}
	if step.Comment != "" {
		directives++
	}
	if directives != 1 {
		return fmt.Errorf("steps[%d]: exactly one directive is required, found %d", index, directives)
	}

	checkMember := func(name string, wantKind string) error {
		decl, ok := declared[name]
		if !ok {
			return fmt.Errorf("steps[%d]: undeclared member %q", index, name)
		}
		if decl.Kind != wantKind {
			return fmt.Errorf("steps[%d]: member %q is a %s, expected %s", index, name, decl.Kind, wantKind)
		}
		return nil
	}

	switch {
	case step.FeedEvent != nil:
		return checkMember(step.FeedEvent.Member, MemberEvent)
	case step.FeedReturn != nil:
		return checkMember(step.FeedReturn.Member, MemberMethod)
	case step.ExpectEvent != nil:
		return validateExpect(index, step.ExpectEvent, MemberEvent, checkMember)
	case step.ExpectReturn != nil:
		return validateExpect(index, step.ExpectReturn, MemberMethod, checkMember)
	case step.CheckQuiet != nil:
		if step.CheckQuiet.TimeoutMS < 0 {
			return fmt.Errorf("steps[%d]: check_quiet timeout_ms must be non-negative", index)
		}
	}
	return nil
}

func validateExpect(index int, e *ExpectStep, wantKind string, checkMember func(string, string) error) error {
	if len(e.Patterns) == 0 {
		return fmt.Errorf("steps[%d]: patterns list is required and must be non-empty", index)
	}
	for _, p := range e.Patterns {
		if err := checkMember(p.Member, wantKind); err != nil {
			return err
		}
	}
	if e.ExpectMatch != nil && *e.ExpectMatch < -1 {
		return fmt.Errorf("steps[%d]: expect_match must be a pattern index or -1", index)
	}
	if e.ExpectMatch != nil && *e.ExpectMatch >= len(e.Patterns) {
		return fmt.Errorf("steps[%d]: expect_match %d out of range (%d patterns)", index, *e.ExpectMatch, len(e.Patterns))
	}
	return nil
}

// validateAssertion validates one trace assertion by type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" && a.Description == "" {
			return fmt.Errorf("assertions[%d]: trace_contains needs kind or description", index)
		}
	case AssertTraceOrder:
		if len(a.Descriptions) < 2 {
			return fmt.Errorf("assertions[%d]: trace_order needs at least two descriptions", index)
		}
	case AssertTraceCount:
		if a.Kind == "" && a.Description == "" {
			return fmt.Errorf("assertions[%d]: trace_count needs kind or description", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// validTypeName reports whether tn names a supported parameter type.
func validTypeName(tn string) bool {
	switch tn {
	case "int", "string", "bool":
		return true
	}
	return false
}
