package oracle

import "github.com/roach88/ptf/internal/member"

// EventCallback translates a raw notification into observations,
// typically ending in AddEvent. The callback runs on the producer's
// goroutine.
type EventCallback func(target any, args []any)

// subKey identifies one event hookup. Targets must be comparable
// (instances are normally pointers); nil target registers the hookup
// for the member on any target.
type subKey struct {
	member *member.Member
	target any
}

// Subscribe installs a live event hookup: future notifications
// dispatched for (mem, target) flow through fn. Subscribing twice for
// the same pair replaces the stored callback rather than stacking. A
// nil fn restores the default hookup, which feeds AddEvent directly.
func (m *Manager) Subscribe(mem *member.Member, target any, fn EventCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := subKey{member: mem, target: target}
	if fn == nil {
		delete(m.subs, key)
		return
	}
	m.subs[key] = fn
}

// Dispatch routes a raw notification through the registered hookup.
// Lookup prefers the exact (member, target) pair, then the member's
// any-target hookup; with neither registered the notification is
// recorded via AddEvent. Safe from any producer goroutine.
func (m *Manager) Dispatch(mem *member.Member, target any, args ...any) {
	m.mu.Lock()
	fn, ok := m.subs[subKey{member: mem, target: target}]
	if !ok {
		fn, ok = m.subs[subKey{member: mem, target: nil}]
	}
	m.mu.Unlock()

	if ok {
		fn(target, args)
		return
	}
	m.AddEvent(mem, target, args...)
}
