package consumer

import (
	"context"
	"errors"
	"io"
	"time"

	"go-storefront/internal/cart"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventClearCart  = "CLEAR_CART"
	EventDeleteCart = "DELETE_CART"

	fetchRetryDelay = time.Second
)

// Reader is the part of *kafka.Reader the consumer uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// CartClearer is satisfied by cart.Service.
type CartClearer interface {
	Clear(ctx context.Context, cartID string) (cart.CartResponse, error)
}

// ConsumeMessages handles order events until ctx is cancelled or the reader
// is closed. Unknown event types are committed and skipped.
func ConsumeMessages(ctx context.Context, reader Reader, carts CartClearer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.L().Named("cart.consumer")
	}
	logger.Info("started consuming messages")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("stopped consuming messages")
				return nil
			}
			if errors.Is(err, io.EOF) {
				logger.Info("reader closed")
				return nil
			}
			logger.Warn("error fetching message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		eventType := headerValue(msg, "event_type")
		log := logger.With(
			zap.String("event_type", eventType),
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
		)

		switch eventType {
		case EventClearCart, EventDeleteCart:
			if err := handleClearCart(ctx, msg.Value, carts, log); err != nil {
				log.Error("error handling cart event", zap.Error(err))
				continue
			}
		default:
			log.Debug("skipping unknown event type")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Warn("error committing message", zap.Error(err))
		}
	}
}

// headerValue returns the last value of header key, "" when absent.
func headerValue(msg kafka.Message, key string) string {
	v := ""
	for _, h := range msg.Headers {
		if h.Key == key {
			v = string(h.Value)
		}
	}
	return v
}
