package cart

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Billing is derived from a snapshot, never stored. ItemCount counts line
// items; Units counts quantities.
type Billing struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	Units     int             `json:"units"`
}

func ComputeBilling(items []LineItem) Billing {
	b := Billing{Total: decimal.Zero, ItemCount: len(items)}
	for _, it := range items {
		b.Total = b.Total.Add(it.Subtotal())
		b.Units += it.Quantity
	}
	return b
}

func (s State) Billing() Billing {
	return ComputeBilling(s.items)
}

// BillingWatcher recomputes billing once a store has been quiet for the
// debounce delay, so a burst of taps yields one recomputation.
type BillingWatcher struct {
	store    *Store
	delay    time.Duration
	onUpdate func(Billing)

	mu          sync.Mutex
	timer       *time.Timer
	current     Billing
	closed      bool
	unsubscribe func()
}

// NewBillingWatcher starts watching store. onUpdate may be nil; it runs on
// the timer goroutine.
func NewBillingWatcher(store *Store, delay time.Duration, onUpdate func(Billing)) *BillingWatcher {
	w := &BillingWatcher{
		store:    store,
		delay:    delay,
		onUpdate: onUpdate,
		current:  store.Snapshot().Billing(),
	}
	w.unsubscribe = store.Subscribe(func(State) { w.schedule() })
	return w
}

// Current returns the last computed billing.
func (w *BillingWatcher) Current() Billing {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *BillingWatcher) Close() {
	w.unsubscribe()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *BillingWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.recompute)
}

func (w *BillingWatcher) recompute() {
	b := w.store.Snapshot().Billing()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.current = b
	onUpdate := w.onUpdate
	w.mu.Unlock()

	if onUpdate != nil {
		onUpdate(b)
	}
}
