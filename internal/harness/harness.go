package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/roach88/ptf/internal/member"
	"github.com/roach88/ptf/internal/oracle"
	"github.com/roach88/ptf/internal/report"
	"github.com/roach88/ptf/internal/testutil"
)

// scenarioAdapter is the declaring type for every scenario member.
// Carrying the adapter marker means no pattern ever needs a target
// instance, which keeps scenario YAML free of object identity.
type scenarioAdapter struct{}

// ProtocolAdapter implements member.AdapterMarker.
func (scenarioAdapter) ProtocolAdapter() {}

var scenarioAdapterType = reflect.TypeOf(scenarioAdapter{})

// Harness executes one scenario against a fresh oracle manager.
// Each run uses a deterministic clock so traces are reproducible.
type Harness struct {
	manager *oracle.Manager
	members map[string]*member.Member
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh manager and recorder for
// isolation. Step errors that indicate scenario bugs (undeclared
// members surviving validation, incompatible checkers) abort the run;
// expectation mismatches are collected into the result instead.
func Run(scenario *Scenario) (*Result, error) {
	return run(scenario, nil)
}

// RunArchived executes a scenario and persists its trace to the
// archive as one run. The run token comes from the scenario when
// fixed, or a fresh UUIDv7 otherwise. Returns the result and the run
// token.
func RunArchived(ctx context.Context, scenario *Scenario, archive *report.Archive) (*Result, string, error) {
	var gen report.RunTokenGenerator
	if scenario.RunToken != "" {
		gen = testutil.NewFixedTokenGenerator(scenario.RunToken)
	} else {
		gen = report.UUIDv7Generator{}
	}

	sink, err := archive.BeginRun(ctx, scenario.Name, time.Now(), gen)
	if err != nil {
		return nil, "", fmt.Errorf("begin archived run: %w", err)
	}

	result, err := run(scenario, sink)
	if err != nil {
		return nil, sink.RunID(), err
	}

	if err := archive.FinishRun(ctx, sink.RunID(), result.Pass); err != nil {
		return nil, sink.RunID(), fmt.Errorf("finish archived run: %w", err)
	}
	return result, sink.RunID(), nil
}

func run(scenario *Scenario, extra report.Sink) (*Result, error) {
	rec := report.NewRecorder()
	var sink report.Sink = rec
	if extra != nil {
		sink = report.MultiSink{rec, extra}
	}

	clock := testutil.NewDeterministicClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &Harness{
		manager: oracle.New(sink,
			oracle.WithLogger(logger),
			oracle.WithClock(clock.Now),
		),
		members: make(map[string]*member.Member, len(scenario.Members)),
		logger:  logger,
	}

	for _, decl := range scenario.Members {
		m, err := buildMember(decl)
		if err != nil {
			return nil, err
		}
		h.members[decl.Name] = m
	}

	result := NewResult()
	h.manager.BeginTest(scenario.Name)

	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	h.manager.EndTest()

	result.Trace = rec.Entries()
	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}
	if rec.Failed() {
		result.Pass = false
	}
	return result, nil
}

// executeStep runs one scenario step against the manager.
func (h *Harness) executeStep(index int, step Step, result *Result) error {
	switch {
	case step.FeedEvent != nil:
		mem := h.members[step.FeedEvent.Member]
		h.manager.AddEvent(mem, nil, step.FeedEvent.Args...)

	case step.FeedReturn != nil:
		mem := h.members[step.FeedReturn.Member]
		h.manager.AddReturn(mem, nil, step.FeedReturn.Args...)

	case step.ExpectEvent != nil:
		expected := make([]*oracle.ExpectedEvent, len(step.ExpectEvent.Patterns))
		for i, p := range step.ExpectEvent.Patterns {
			expected[i] = &oracle.ExpectedEvent{
				Member: h.members[p.Member],
				Check:  h.buildChecker(p),
			}
		}
		idx, err := h.manager.ExpectEvent(
			time.Duration(step.ExpectEvent.TimeoutMS)*time.Millisecond,
			step.ExpectEvent.FailIfNone,
			expected...,
		)
		if err != nil {
			return err
		}
		h.checkMatch(index, step.ExpectEvent, idx, result)

	case step.ExpectReturn != nil:
		expected := make([]*oracle.ExpectedReturn, len(step.ExpectReturn.Patterns))
		for i, p := range step.ExpectReturn.Patterns {
			expected[i] = &oracle.ExpectedReturn{
				Member: h.members[p.Member],
				Check:  h.buildChecker(p),
			}
		}
		idx, err := h.manager.ExpectReturn(
			time.Duration(step.ExpectReturn.TimeoutMS)*time.Millisecond,
			step.ExpectReturn.FailIfNone,
			expected...,
		)
		if err != nil {
			return err
		}
		h.checkMatch(index, step.ExpectReturn, idx, result)

	case step.CheckQuiet != nil:
		if err := h.manager.CheckObservationTimeout(
			time.Duration(step.CheckQuiet.TimeoutMS) * time.Millisecond,
		); err != nil {
			return err
		}

	case step.Comment != "":
		h.manager.Comment(step.Comment)
	}
	return nil
}

// buildChecker returns an argument-equality checker for the pattern,
// or nil for identity-only patterns. Scenario members are declared on
// the adapter, so the array convention applies and the checker sees
// exactly the observed arguments.
func (h *Harness) buildChecker(p Pattern) any {
	if p.Args == nil {
		return nil
	}
	expected := p.Args
	name := p.Member
	return func(args []any) error {
		return h.manager.Assert(argsEqual(args, expected),
			fmt.Sprintf("%s arguments equal %v", name, expected))
	}
}

// checkMatch validates the winning pattern index against the step's
// expectation.
func (h *Harness) checkMatch(index int, e *ExpectStep, idx int, result *Result) {
	if e.ExpectMatch == nil {
		if idx == oracle.NoMatch {
			result.AddError(fmt.Sprintf("steps[%d]: no pattern matched", index))
		}
		return
	}
	if idx != *e.ExpectMatch {
		result.AddError(fmt.Sprintf("steps[%d]: pattern %d matched, expected %d", index, idx, *e.ExpectMatch))
	}
}

// argsEqual compares observed and expected argument lists.
func argsEqual(actual, expected []any) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i := range actual {
		if !reflect.DeepEqual(actual[i], expected[i]) {
			return false
		}
	}
	return true
}

// buildMember constructs the member descriptor for one declaration.
func buildMember(decl MemberDecl) (*member.Member, error) {
	params, err := typeList(decl.Params)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", decl.Name, err)
	}

	if decl.Kind == MemberEvent {
		return member.NewEvent(decl.Name, scenarioAdapterType, params...), nil
	}

	byRef, err := typeList(decl.ByRef)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", decl.Name, err)
	}
	var ret reflect.Type
	if decl.Return != "" {
		ret, err = typeFor(decl.Return)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", decl.Name, err)
		}
	}
	return member.NewMethod(decl.Name, scenarioAdapterType, params, byRef, ret), nil
}

func typeList(names []string) ([]reflect.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]reflect.Type, len(names))
	for i, n := range names {
		t, err := typeFor(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// typeFor resolves a scenario type name to its Go type.
func typeFor(name string) (reflect.Type, error) {
	switch name {
	case "int":
		return reflect.TypeOf(0), nil
	case "string":
		return reflect.TypeOf(""), nil
	case "bool":
		return reflect.TypeOf(false), nil
	default:
		return nil, fmt.Errorf("unknown type name %q", name)
	}
}
