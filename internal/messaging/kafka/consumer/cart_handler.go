package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-storefront/internal/cart"

	"go.uber.org/zap"
)

type ClearCartPayload struct {
	CartID string `json:"cart_id"`
}

// handleClearCart clears the cart named in payload. Payloads that can never
// succeed are logged and reported as handled so they get committed.
func handleClearCart(ctx context.Context, payload []byte, carts CartClearer, logger *zap.Logger) error {
	var data ClearCartPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		logger.Warn("dropping undecodable cart event", zap.Error(err))
		return nil
	}

	res, err := carts.Clear(ctx, data.CartID)
	if errors.Is(err, cart.ErrInvalidCartID) {
		logger.Warn("dropping cart event with invalid cart id", zap.String("cart_id", data.CartID))
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("cart cleared", zap.String("cart_id", res.CartID))
	return nil
}
