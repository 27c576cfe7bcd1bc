package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventBillingUpdated = "BILLING_UPDATED"

//go:generate mockgen -source=cart_ports.go -destination=../mock/cart/cart_ports_mock.go -package=mock
type ProductLookup interface {
	Lookup(ctx context.Context, id ProductID) (Product, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Event describes a cart change for downstream consumers. Type is a
// CommandType or EventBillingUpdated.
type Event struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cart_id"`
	Type       string          `json:"type"`
	ProductID  ProductID       `json:"product_id,omitempty"`
	ItemCount  int             `json:"items"`
	Units      int             `json:"units"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func newEvent(cartID, typ string, productID ProductID, b Billing, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		CartID:     cartID,
		Type:       typ,
		ProductID:  productID,
		ItemCount:  b.ItemCount,
		Units:      b.Units,
		Total:      b.Total,
		OccurredAt: at.UTC(),
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
