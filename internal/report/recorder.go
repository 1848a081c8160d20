package report

import "sync"

// Entry is one recorded report action in append order.
type Entry struct {
	Seq         int64  `json:"seq"`
	Kind        string `json:"kind"`
	Outcome     bool   `json:"outcome,omitempty"`
	Description string `json:"description,omitempty"`
}

// Recorder is an in-memory sink capturing every report action in order.
// Used by the harness for trace assertions and golden comparison, and
// by tests to observe exactly what the engine forwarded.
//
// Thread-safe: the oracle forwards from one flow at a time, but harness
// scenarios may also record from producer goroutines.
type Recorder struct {
	mu      sync.Mutex
	seq     int64
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make([]Entry, 0, 32)}
}

func (r *Recorder) append(kind string, outcome bool, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries = append(r.entries, Entry{
		Seq:         r.seq,
		Kind:        kind,
		Outcome:     outcome,
		Description: description,
	})
}

// Assert implements Sink.
func (r *Recorder) Assert(condition bool, description string) {
	r.append(KindAssert, condition, description)
}

// Assume implements Sink.
func (r *Recorder) Assume(condition bool, description string) {
	r.append(KindAssume, condition, description)
}

// Checkpoint implements Sink.
func (r *Recorder) Checkpoint(description string) {
	r.append(KindCheckpoint, true, description)
}

// Comment implements Sink.
func (r *Recorder) Comment(description string) {
	r.append(KindComment, true, description)
}

// BeginTest implements Sink.
func (r *Recorder) BeginTest(name string) {
	r.append(KindBeginTest, true, name)
}

// EndTest implements Sink.
func (r *Recorder) EndTest() {
	r.append(KindEndTest, true, "")
}

// Entries returns a copy of all recorded entries in append order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Failed reports whether any assert or assume entry recorded a false
// outcome.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if (e.Kind == KindAssert || e.Kind == KindAssume) && !e.Outcome {
			return true
		}
	}
	return false
}

// Reset discards all recorded entries and restarts the sequence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = 0
	r.entries = r.entries[:0]
}
