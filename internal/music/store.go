package music

import (
	"sync"

	"github.com/ytget/mood-player/internal/model"
)

// Store is the reactive container for the widget state. Listeners run
// synchronously after the change is committed, outside the lock, in
// subscription order.
type Store struct {
	mu        sync.Mutex
	state     model.State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// State returns the current snapshot
func (s *Store) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.removeLocked(id)
	}
}

// Update applies fn to the state. Listeners are only notified when the
// resulting snapshot differs from the previous one.
func (s *Store) Update(fn func(*model.State)) (prev, next model.State, changed bool) {
	s.mu.Lock()
	prev = s.state
	next = prev
	fn(&next)
	changed = next != prev
	s.state = next
	var listeners []Listener
	if changed {
		listeners = s.snapshotLocked()
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
	return prev, next, changed
}

// Reset drops all listeners and clears the state without notifying anyone
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.State{}
	s.listeners = make(map[int]Listener)
	s.order = nil
}

func (s *Store) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.listeners[id])
	}
	return out
}

func (s *Store) removeLocked(id int) {
	if _, ok := s.listeners[id]; !ok {
		return
	}
	delete(s.listeners, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
