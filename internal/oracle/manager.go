package oracle

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/roach88/ptf/internal/member"
	"github.com/roach88/ptf/internal/observe"
	"github.com/roach88/ptf/internal/report"
	"github.com/roach88/ptf/internal/txn"
)

// Manager ties the observation queues, the transaction log, and the
// calling-convention machinery together behind the engine surface, and
// bridges to the external reporting and adapter-lookup collaborators.
//
// Thread-safety model:
//   - AddEvent/AddReturn/Dispatch: safe from any goroutine
//   - RegisterAdapter/GetAdapter/Subscribe: safe from any goroutine
//   - Everything else (expectations, transactions, report surface):
//     one logical flow at a time - the test execution thread
//
// All state is in-memory and scoped to one running test case.
type Manager struct {
	sink   report.Sink
	logger *slog.Logger
	raise  bool
	now    func() time.Time

	queueCapacity int
	events        *observe.Queue
	returns       *observe.Queue

	log *txn.Log
	gen ValueGenerator

	mu       sync.Mutex // guards adapters and subs
	adapters map[reflect.Type]any
	subs     map[subKey]EventCallback
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRaiseOnFailure makes reported failures come back to the caller as
// *report.FailureError instead of being handled entirely inside the
// reporting sink. Manager-wide policy, not per call.
func WithRaiseOnFailure() Option {
	return func(m *Manager) {
		m.raise = true
	}
}

// WithQueueCapacity sets the advisory capacity of both observation
// queues. Zero (the default) means unbounded.
func WithQueueCapacity(n int) Option {
	return func(m *Manager) {
		m.queueCapacity = n
	}
}

// WithClock overrides the timestamp source for observations.
// Tests use a deterministic clock for reproducible traces.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithValueGenerator overrides the value-generation collaborator.
func WithValueGenerator(gen ValueGenerator) Option {
	return func(m *Manager) {
		m.gen = gen
	}
}

// New creates a Manager reporting to sink. A nil sink reports to a
// structured-log sink on the default logger.
func New(sink report.Sink, opts ...Option) *Manager {
	m := &Manager{
		sink:     sink,
		logger:   slog.Default(),
		now:      time.Now,
		log:      txn.NewLog(),
		adapters: make(map[reflect.Type]any),
		subs:     make(map[subKey]EventCallback),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.sink == nil {
		m.sink = report.NewLogSink(m.logger)
	}
	if m.gen == nil {
		m.gen = NewRandomGenerator(defaultGeneratorSeed)
	}

	m.events = observe.NewQueue(m.queueCapacity, m.logger)
	m.returns = observe.NewQueue(m.queueCapacity, m.logger)

	return m
}

// AddEvent records that an event fired, with its actual arguments.
// Safe from any producer goroutine; wakes a pending ExpectEvent.
func (m *Manager) AddEvent(mem *member.Member, target any, args ...any) {
	m.events.Add(observe.NewEvent(mem, target, args, m.now()))
	m.logger.Debug("event observed",
		"member", mem.String(),
		"queued", m.events.Len(),
	)
}

// AddReturn records that a method returned. args carries the by-ref
// outputs in declaration order followed by the return value.
func (m *Manager) AddReturn(mem *member.Member, target any, args ...any) {
	m.returns.Add(observe.NewReturn(mem, target, args, m.now()))
	m.logger.Debug("return observed",
		"member", mem.String(),
		"queued", m.returns.Len(),
	)
}

// EventCount returns the number of queued, unconsumed event
// observations.
func (m *Manager) EventCount() int {
	return m.events.Len()
}

// ReturnCount returns the number of queued, unconsumed return
// observations.
func (m *Manager) ReturnCount() int {
	return m.returns.Len()
}

// BeginTransaction opens a transaction on the manager's log. Nesting
// fails fast with txn.ErrTransactionActive.
func (m *Manager) BeginTransaction() error {
	return m.log.Begin()
}

// EndTransaction closes the active transaction. Commit replays the
// buffered entries to the reporting sink in append order; rollback
// undoes only variable bindings.
//
// Under the raise-on-failure policy, committing a log that buffered a
// failed assert or assume returns the failure as *report.FailureError
// after the full replay.
func (m *Manager) EndTransaction(commit bool) error {
	entries, err := m.log.End(commit, m.sink)
	if err != nil {
		return err
	}
	if commit && m.raise {
		for _, e := range entries {
			if (e.Kind == txn.EntryAssert || e.Kind == txn.EntryAssume) && !e.Outcome {
				return &report.FailureError{Description: e.Description}
			}
		}
	}
	return nil
}

// Assert checks a condition. Inside a transaction the entry is buffered
// and a false condition aborts the attempt with txn.ErrCheckFailed.
// Outside, a false condition either raises *report.FailureError (under
// the raise policy) or is forwarded to the reporting sink.
func (m *Manager) Assert(condition bool, description string) error {
	if m.log.Active() {
		return m.log.Assert(condition, description)
	}
	if !condition && m.raise {
		return &report.FailureError{Description: description}
	}
	m.sink.Assert(condition, description)
	return nil
}

// Assume checks an assumption. Inside a transaction a false condition
// aborts the attempt; outside it is forwarded to the sink.
func (m *Manager) Assume(condition bool, description string) error {
	if m.log.Active() {
		return m.log.Assume(condition, description)
	}
	m.sink.Assume(condition, description)
	return nil
}

// Checkpoint records an informational checkpoint, buffered when a
// transaction is active.
func (m *Manager) Checkpoint(description string) {
	if m.log.Active() {
		m.log.Checkpoint(description)
		return
	}
	m.sink.Checkpoint(description)
}

// Comment records an informational comment, buffered when a transaction
// is active.
func (m *Manager) Comment(description string) {
	if m.log.Active() {
		m.log.Comment(description)
		return
	}
	m.sink.Comment(description)
}

// BeginTest brackets the start of a test case on the reporting sink.
func (m *Manager) BeginTest(name string) {
	m.sink.BeginTest(name)
}

// EndTest brackets the end of a test case on the reporting sink.
func (m *Manager) EndTest() {
	m.sink.EndTest()
}

// CreateVariable creates an unbound variable attached to this manager's
// transaction scope.
func (m *Manager) CreateVariable(name string) *txn.Variable {
	return m.log.NewVariable(name)
}

// BindOrCheck implements bind-or-check semantics: if v is already
// bound, assert its value equals observed; otherwise bind it to
// observed.
func (m *Manager) BindOrCheck(v *txn.Variable, observed any) error {
	if v.Bound() {
		current, err := v.Value()
		if err != nil {
			return err
		}
		return m.Assert(valuesEqual(current, observed),
			fmt.Sprintf("variable %s (=%v) equals observed value %v", v.Name(), current, observed))
	}
	return v.Bind(observed)
}

// Unify relates two variables: both bound asserts equality, exactly one
// bound propagates its value to the other, neither bound is a no-op.
func (m *Manager) Unify(a, b *txn.Variable) error {
	switch {
	case a.Bound() && b.Bound():
		av, err := a.Value()
		if err != nil {
			return err
		}
		bv, err := b.Value()
		if err != nil {
			return err
		}
		return m.Assert(valuesEqual(av, bv),
			fmt.Sprintf("variables %s (=%v) and %s (=%v) are equal", a.Name(), av, b.Name(), bv))
	case a.Bound():
		av, err := a.Value()
		if err != nil {
			return err
		}
		return b.Bind(av)
	case b.Bound():
		bv, err := b.Value()
		if err != nil {
			return err
		}
		return a.Bind(bv)
	default:
		return nil
	}
}

// RegisterAdapter registers a singleton adapter instance for lookup by
// type. Re-registering the same concrete type replaces the instance.
func (m *Manager) RegisterAdapter(instance any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adapters[reflect.TypeOf(instance)] = instance
}

// GetAdapter resolves the singleton adapter instance for t. The match
// is by exact concrete type, or by interface satisfaction when t is an
// interface. Failing to resolve is a programming error.
func (m *Manager) GetAdapter(t reflect.Type) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if instance, ok := m.adapters[t]; ok {
		return instance, nil
	}
	if t != nil && t.Kind() == reflect.Interface {
		for registered, instance := range m.adapters {
			if registered.Implements(t) {
				return instance, nil
			}
		}
	}
	return nil, fmt.Errorf("no adapter registered for type %v", t)
}

// GenerateValue produces a representative value of type t via the
// value-generation collaborator.
func (m *Manager) GenerateValue(t reflect.Type) (any, error) {
	return m.gen.Generate(t)
}

// reportFailure routes an unmet-expectation diagnosis according to the
// manager-wide failure policy.
func (m *Manager) reportFailure(description string) error {
	if m.raise {
		return &report.FailureError{Description: description}
	}
	m.sink.Assert(false, description)
	return nil
}

// valuesEqual compares two observed values, handling nested slices and
// maps.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
