package member

import (
	"reflect"
	"sync"
)

// AdapterMarker marks a type as an adapter - the interaction boundary
// between the oracle and the system under test. Members declared on
// adapter types never require a target instance in checker conventions.
//
// A type is classified as an adapter when it (or any type it embeds)
// implements this interface, or when it was registered explicitly via
// RegisterAdapterType.
type AdapterMarker interface {
	ProtocolAdapter()
}

var adapterMarkerType = reflect.TypeOf((*AdapterMarker)(nil)).Elem()

// adapterCache memoizes adapter classification per type. Classification
// is computed once and read by multiple threads, so all access goes
// through a single lock.
type adapterCache struct {
	mu         sync.RWMutex
	classified map[reflect.Type]bool
	registered map[reflect.Type]bool
}

var adapters = &adapterCache{
	classified: make(map[reflect.Type]bool),
	registered: make(map[reflect.Type]bool),
}

// IsAdapter reports whether t is classified as an adapter type.
// Thread-safe; results are memoized per type.
func IsAdapter(t reflect.Type) bool {
	if t == nil {
		return false
	}

	adapters.mu.RLock()
	if cached, ok := adapters.classified[t]; ok {
		adapters.mu.RUnlock()
		return cached
	}
	adapters.mu.RUnlock()

	adapters.mu.Lock()
	defer adapters.mu.Unlock()

	// Re-check under the write lock - another thread may have
	// classified t between the two lock acquisitions.
	if cached, ok := adapters.classified[t]; ok {
		return cached
	}

	result := adapters.registered[t] || implementsMarker(t)
	adapters.classified[t] = result
	return result
}

// implementsMarker checks the marker interface against both t and *t.
// Embedded marker implementations propagate through Go method sets, so
// transitive classification needs no explicit base-type walk.
func implementsMarker(t reflect.Type) bool {
	if t.Implements(adapterMarkerType) {
		return true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(adapterMarkerType) {
		return true
	}
	return false
}

// RegisterAdapterType explicitly marks t as an adapter. Used for types
// that cannot carry the marker method (e.g. foreign types).
// Thread-safe. Invalidates any cached classification for t.
func RegisterAdapterType(t reflect.Type) {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()
	adapters.registered[t] = true
	delete(adapters.classified, t)
}

// ResetAdapterCache clears all classification state. Call during
// test-run teardown so one run's registrations never leak into the
// next.
func ResetAdapterCache() {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()
	adapters.classified = make(map[reflect.Type]bool)
	adapters.registered = make(map[reflect.Type]bool)
}
