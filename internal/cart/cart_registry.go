package cart

import (
	"sync"
	"sync/atomic"
	"time"
)

// Registry keeps one Store per cart session, in memory only. Carts not
// touched for idleTTL are evicted; a zero idleTTL keeps them forever.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	idleTTL time.Duration
	swept   time.Time
	now     func() time.Time

	// onCreate attaches per-cart collaborators and returns their cleanup.
	onCreate func(cartID string, s *Store) func()
}

type registryEntry struct {
	store    *Store
	cleanup  func()
	lastSeen atomic.Int64
}

func (e *registryEntry) touch(now time.Time) { e.lastSeen.Store(now.UnixNano()) }

func (e *registryEntry) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, e.lastSeen.Load()))
}

// NewRegistry creates an empty registry. onCreate may be nil.
func NewRegistry(idleTTL time.Duration, onCreate func(cartID string, s *Store) func()) *Registry {
	return &Registry{
		entries:  make(map[string]*registryEntry),
		idleTTL:  idleTTL,
		swept:    time.Now(),
		now:      time.Now,
		onCreate: onCreate,
	}
}

func (r *Registry) Get(cartID string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[cartID]
	if !ok {
		return nil, false
	}
	e.touch(r.now())
	return e.store, true
}

// GetOrCreate returns the store for cartID, creating an empty one first.
// Creating a cart also evicts idle ones once per idleTTL.
func (r *Registry) GetOrCreate(cartID string) *Store {
	if s, ok := r.Get(cartID); ok {
		return s
	}

	now := r.now()
	if r.idleTTL > 0 {
		r.mu.RLock()
		due := now.Sub(r.swept) > r.idleTTL
		r.mu.RUnlock()
		if due {
			r.EvictIdle(now)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[cartID]; ok {
		e.touch(now)
		return e.store
	}
	e := &registryEntry{store: NewStore(Empty())}
	e.touch(now)
	if r.onCreate != nil {
		e.cleanup = r.onCreate(cartID, e.store)
	}
	r.entries[cartID] = e
	return e.store
}

// EvictIdle drops every cart untouched for longer than idleTTL at now and
// runs its cleanup. It returns the number of carts evicted.
func (r *Registry) EvictIdle(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var evicted []*registryEntry
	for id, e := range r.entries {
		if e.idleSince(now) > r.idleTTL {
			evicted = append(evicted, e)
			delete(r.entries, id)
		}
	}
	r.swept = now
	r.mu.Unlock()

	for _, e := range evicted {
		if e.cleanup != nil {
			e.cleanup()
		}
	}
	return len(evicted)
}

// Delete forgets cartID and releases what onCreate attached.
func (r *Registry) Delete(cartID string) {
	r.mu.Lock()
	e, ok := r.entries[cartID]
	delete(r.entries, cartID)
	r.mu.Unlock()

	if ok && e.cleanup != nil {
		e.cleanup()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close releases every cart.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range entries {
		if e.cleanup != nil {
			e.cleanup()
		}
	}
}
