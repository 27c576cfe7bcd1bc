package app

import (
	"context"
	"sync"
	"testing"

	"go-storefront/internal/cart"
	"go-storefront/internal/messaging/kafka/producer"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) eventTypes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, m := range w.msgs {
		for _, h := range m.Headers {
			if h.Key == "event_type" {
				out = append(out, string(h.Value))
			}
		}
	}
	return out
}

type fixedLookup struct{}

func (fixedLookup) Lookup(_ context.Context, id cart.ProductID) (cart.Product, error) {
	return cart.Product{ID: id, Name: "p", Price: decimal.NewFromInt(5)}, nil
}

func TestApp_EventsPublishedDuringShutdownAreDelivered(t *testing.T) {
	writer := &recordingWriter{}
	a := &App{logger: zap.NewNop()}
	a.publisher = producer.NewPublisher(writer, 16, zap.NewNop())
	a.carts = cart.NewService(cart.Deps{
		Catalog:   fixedLookup{},
		Publisher: a.publisher,
		Logger:    zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	var g errgroup.Group
	a.StartBackground(ctx, &g)

	// shutdown signal arrives while a request is still in flight
	cancel()
	require.NoError(t, g.Wait())

	_, err := a.carts.AddItem(context.Background(), uuid.NewString(), cart.AddItemRequest{ID: "A"})
	require.NoError(t, err)

	a.Close()
	assert.Equal(t, []string{string(cart.TypeAddToCart)}, writer.eventTypes())
}
