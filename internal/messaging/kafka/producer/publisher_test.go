package producer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/messaging/kafka/producer"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) written() []kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kafka.Message(nil), f.msgs...)
}

func event(id, cartID string) cart.Event {
	return cart.Event{
		ID:         id,
		CartID:     cartID,
		Type:       string(cart.TypeAddToCart),
		ProductID:  "p1",
		ItemCount:  1,
		Units:      2,
		Total:      decimal.NewFromInt(20),
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Run(t *testing.T) {
	w := &fakeWriter{}
	p := producer.NewPublisher(w, 8, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, p.Publish(ctx, event("e1", "cart-1")))
	require.NoError(t, p.Publish(ctx, event("e2", "cart-2")))

	assert.Eventually(t, func() bool { return len(w.written()) == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	msgs := w.written()
	assert.Equal(t, "cart-1", string(msgs[0].Key))
	assert.Equal(t, string(cart.TypeAddToCart), header(msgs[0], "event_type"))
	assert.Equal(t, "cart", header(msgs[0], "aggregate_type"))
	assert.Equal(t, "e1", header(msgs[0], "event_id"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msgs[0].Value, &payload))
	assert.Equal(t, "cart-1", payload["cart_id"])
	assert.Equal(t, "p1", payload["product_id"])
	assert.Equal(t, "20", payload["total"])
	assert.Equal(t, float64(2), payload["units"])
}

func TestPublisher_QueueFull(t *testing.T) {
	p := producer.NewPublisher(&fakeWriter{}, 1, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, event("e1", "c")))
	assert.ErrorIs(t, p.Publish(ctx, event("e2", "c")), producer.ErrQueueFull)
}

func TestPublisher_DrainsOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	p := producer.NewPublisher(w, 8, zap.NewNop())

	bg := context.Background()
	require.NoError(t, p.Publish(bg, event("e1", "c")))
	require.NoError(t, p.Publish(bg, event("e2", "c")))

	ctx, cancel := context.WithCancel(bg)
	cancel()
	require.NoError(t, p.Run(ctx))

	assert.Len(t, w.written(), 2)
}

func TestPublisher_WriteFailureIsSwallowed(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := producer.NewPublisher(w, 8, zap.NewNop())

	bg := context.Background()
	require.NoError(t, p.Publish(bg, event("e1", "c")))

	ctx, cancel := context.WithCancel(bg)
	cancel()
	assert.NoError(t, p.Run(ctx))
	assert.Empty(t, w.written())
}
