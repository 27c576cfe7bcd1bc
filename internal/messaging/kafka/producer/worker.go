package producer

import (
	"context"
	"time"

	"go-storefront/internal/cart"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	maxBatch     = 100
	drainTimeout = 5 * time.Second
)

// Run writes queued events until ctx is cancelled, then flushes whatever is
// still queued within drainTimeout.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("cart event publisher started")
	for {
		select {
		case <-ctx.Done():
			p.drain()
			p.logger.Info("cart event publisher stopped")
			return nil
		case evt := <-p.queue:
			// writes outlive cancellation so an accepted event is not lost
			p.processBatch(context.WithoutCancel(ctx), p.collect(evt))
		}
	}
}

// collect takes first plus whatever else is already queued, up to maxBatch.
func (p *Publisher) collect(first cart.Event) []cart.Event {
	batch := []cart.Event{first}
	for len(batch) < maxBatch {
		select {
		case evt := <-p.queue:
			batch = append(batch, evt)
		default:
			return batch
		}
	}
	return batch
}

func (p *Publisher) processBatch(ctx context.Context, events []cart.Event) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		msg, err := toMessage(evt)
		if err != nil {
			p.logger.Error("dropping cart event", zap.String("event_id", evt.ID), zap.Error(err))
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("failed to publish cart events",
			zap.Int("count", len(msgs)),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("cart events published", zap.Int("count", len(msgs)))
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case evt := <-p.queue:
			p.processBatch(ctx, p.collect(evt))
		default:
			return
		}
	}
}
