package cart_test

import (
	"sync"
	"testing"

	"go-storefront/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Dispatch(t *testing.T) {
	store := cart.NewStore(cart.Empty())

	var seen []cart.State
	unsubscribe := store.Subscribe(func(s cart.State) { seen = append(seen, s) })

	next, changed := store.Dispatch(cart.AddToCart{Product: product("A", "10")})
	assert.True(t, changed)
	assert.Equal(t, 1, next.Quantity("A"))
	assert.Equal(t, 1, store.Snapshot().Quantity("A"))

	_, changed = store.Dispatch(cart.IncrementQuantity{ID: "missing"})
	assert.False(t, changed)
	require.Len(t, seen, 1, "no-op dispatches must not notify")

	unsubscribe()
	unsubscribe()
	store.Dispatch(cart.IncrementQuantity{ID: "A"})
	assert.Len(t, seen, 1)
	assert.Equal(t, 2, store.Snapshot().Quantity("A"))
}

func TestStore_SnapshotIsStable(t *testing.T) {
	store := cart.NewStore(cart.Empty())
	store.Dispatch(cart.AddToCart{Product: product("A", "10")})

	before := store.Snapshot()
	store.Dispatch(cart.IncrementQuantity{ID: "A"})
	store.Dispatch(cart.AddToCart{Product: product("B", "1")})

	assert.Equal(t, 1, before.Quantity("A"))
	assert.False(t, before.Contains("B"))
}

func TestStore_ConcurrentDispatchNotifiesInOrder(t *testing.T) {
	store := cart.NewStore(cart.NewState(cart.LineItem{Product: product("A", "1"), Quantity: 1}))

	var mu sync.Mutex
	var units []int
	store.Subscribe(func(s cart.State) {
		mu.Lock()
		units = append(units, s.Units())
		mu.Unlock()
	})

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			store.Dispatch(cart.IncrementQuantity{ID: "A"})
		}()
	}
	wg.Wait()

	assert.Equal(t, workers+1, store.Snapshot().Quantity("A"))
	require.Len(t, units, workers)
	for i, u := range units {
		assert.Equal(t, i+2, u)
	}
}
