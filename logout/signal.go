// Package logout provides the forced-logout signal. Low-level HTTP
// interceptors raise it when the platform rejects a session mid-flight; the
// session controller subscribes to it and clears local identity in response.
package logout

import (
	"sort"
	"sync"
)

// Signal is a process-wide notification fan-out. Subscribers registered at
// the time of a Raise are each invoked exactly once per raise, synchronously
// and in registration order.
type Signal struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewSignal creates an empty signal.
func NewSignal() *Signal {
	return &Signal{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a function that removes the
// subscription. Unsubscribing twice is harmless.
func (s *Signal) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Raise notifies every current subscriber. Callbacks run outside the
// signal's lock so a subscriber may unsubscribe itself.
func (s *Signal) Raise() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// Registration order equals id order.
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
