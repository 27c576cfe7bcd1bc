package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-storefront/internal/cart"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("cart event queue is full")

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher queues cart events in memory and writes them to kafka from Run,
// so request handlers never wait on the broker.
type Publisher struct {
	writer Writer
	queue  chan cart.Event
	logger *zap.Logger
}

func NewPublisher(w Writer, bufferSize int, logger ...*zap.Logger) *Publisher {
	l := zap.L().Named("cart.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.publisher")
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Publisher{
		writer: w,
		queue:  make(chan cart.Event, bufferSize),
		logger: l,
	}
}

// Publish enqueues evt. It never blocks; a full queue is reported as
// ErrQueueFull.
func (p *Publisher) Publish(ctx context.Context, evt cart.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.queue <- evt:
		return nil
	default:
		return ErrQueueFull
	}
}

func toMessage(evt cart.Event) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode cart event %s: %w", evt.ID, err)
	}
	return kafka.Message{
		Key:   []byte(evt.CartID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
			{Key: "aggregate_type", Value: []byte("cart")},
			{Key: "event_id", Value: []byte(evt.ID)},
		},
	}, nil
}
