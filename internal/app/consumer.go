package app

import (
	"context"

	"go-storefront/internal/messaging/kafka/consumer"

	"go.uber.org/zap"
)

// runConsumer clears carts on order events until ctx is cancelled.
func (a *App) runConsumer(ctx context.Context) error {
	logger := a.logger.Named("cart.consumer")
	logger.Info("starting cart consumer",
		zap.String("topic", a.cfg.OrderEventsTopic),
		zap.String("group_id", a.cfg.CartConsumerGroup),
	)
	return consumer.ConsumeMessages(ctx, a.reader, a.carts, logger)
}
