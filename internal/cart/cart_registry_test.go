package cart_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"go-storefront/internal/cart"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	var created, cleaned int32
	r := cart.NewRegistry(0, func(string, *cart.Store) func() {
		atomic.AddInt32(&created, 1)
		return func() { atomic.AddInt32(&cleaned, 1) }
	})

	_, ok := r.Get("c1")
	assert.False(t, ok)

	var wg sync.WaitGroup
	stores := make([]*cart.Store, 20)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = r.GetOrCreate("c1")
		}(i)
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("c1")
	assert.True(t, ok)
	assert.Same(t, stores[0], got)

	r.Delete("c1")
	r.Delete("c1")
	assert.Equal(t, int32(1), atomic.LoadInt32(&cleaned))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CartsAreIsolated(t *testing.T) {
	r := cart.NewRegistry(0, nil)

	r.GetOrCreate("c1").Dispatch(cart.AddToCart{Product: product("A", "1")})
	assert.Equal(t, 0, r.GetOrCreate("c2").Snapshot().Len())
	assert.Equal(t, 1, r.GetOrCreate("c1").Snapshot().Len())
}

func TestRegistry_Close(t *testing.T) {
	var cleaned int32
	r := cart.NewRegistry(0, func(string, *cart.Store) func() {
		return func() { atomic.AddInt32(&cleaned, 1) }
	})
	r.GetOrCreate("c1")
	r.GetOrCreate("c2")

	r.Close()
	assert.Equal(t, int32(2), atomic.LoadInt32(&cleaned))
	assert.Equal(t, 0, r.Len())
}
