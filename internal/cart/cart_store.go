package cart

import "sync"

// Listener observes snapshots produced by a Store. Listeners run after the
// store lock is released but must not dispatch on the same store.
type Listener func(State)

// Store owns one cart's current snapshot and serializes dispatches.
type Store struct {
	mu    sync.Mutex
	state State

	// notifyMu keeps listener calls in dispatch order
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current state. The returned value stays valid and
// unchanged regardless of later dispatches.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies cmd and returns the new snapshot and whether it differs
// from the previous one.
func (s *Store) Dispatch(cmd Command) (State, bool) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, cmd)
	s.state = next
	changed := !Same(prev, next)

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if changed {
		for _, l := range s.listeners {
			l(next)
		}
	}
	return next, changed
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			delete(s.listeners, id)
			s.notifyMu.Unlock()
		})
	}
}
