// Package nav models where the user is and how they got there.
package nav

import "sync"

// Location is a named place in the application.
type Location string

const (
	Home            Location = "/"
	Login           Location = "/login"
	Specialists     Location = "/especialistas"
	Dashboard       Location = "/dashboard"
	MyAppointments  Location = "/mis-citas"
	AllAppointments Location = "/citas"
)

// Navigator receives navigation requests. replace swaps the current entry
// instead of pushing a new one, so going back skips the replaced location.
type Navigator interface {
	Navigate(loc Location, replace bool)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(loc Location, replace bool)

func (f NavigatorFunc) Navigate(loc Location, replace bool) { f(loc, replace) }

// Discard ignores every navigation request.
var Discard Navigator = NavigatorFunc(func(Location, bool) {})

type listener struct {
	id int
	fn func(Location)
}

// History is a back-stack of locations. It is safe for concurrent use.
type History struct {
	mu        sync.Mutex
	entries   []Location
	listeners []listener
	nextID    int
}

// NewHistory returns a history positioned at start.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

// Navigate moves to loc and notifies subscribers, even when loc equals the
// current location.
func (h *History) Navigate(loc Location, replace bool) {
	h.mu.Lock()
	if replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = loc
	} else {
		h.entries = append(h.entries, loc)
	}
	ls := h.snapshot()
	h.mu.Unlock()

	for _, l := range ls {
		l.fn(loc)
	}
}

// Back pops the current entry. It reports false at the root.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	if len(h.entries) <= 1 {
		cur := h.current()
		h.mu.Unlock()
		return cur, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	cur := h.current()
	ls := h.snapshot()
	h.mu.Unlock()

	for _, l := range ls {
		l.fn(cur)
	}
	return cur, true
}

// Current returns the location on top of the stack.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current()
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.entries...)
}

// Subscribe registers fn to run after every location change. The returned
// func removes the subscription.
func (h *History) Subscribe(fn func(Location)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, listener{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

func (h *History) current() Location {
	if len(h.entries) == 0 {
		return Home
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) snapshot() []listener {
	return append([]listener(nil), h.listeners...)
}
