package cart_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-storefront/internal/cart"
	mock "go-storefront/internal/mock/cart"
	"go-storefront/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (cart.Service, *mock.MockProductLookup, *mock.MockEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	lookup := mock.NewMockProductLookup(ctrl)
	publisher := mock.NewMockEventPublisher(ctrl)

	svc := cart.NewService(cart.Deps{
		Catalog:   lookup,
		Publisher: publisher,
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	t.Cleanup(svc.Close)
	return svc, lookup, publisher
}

func priced(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCartService_InvalidCartID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Detail(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, cart.ErrInvalidCartID)

	_, err = svc.AddItem(ctx, "", cart.AddItemRequest{ID: "A", Price: priced("1")})
	assert.ErrorIs(t, err, cart.ErrInvalidCartID)

	_, err = svc.Increment(ctx, "nope", "A")
	assert.ErrorIs(t, err, cart.ErrInvalidCartID)

	_, err = svc.Billing(ctx, "nope")
	assert.ErrorIs(t, err, cart.ErrInvalidCartID)
}

func TestCartService_Detail_UnknownCartIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	cartID := uuid.NewString()

	res, err := svc.Detail(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, cartID, res.CartID)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.True(t, res.Billing.Total.IsZero())
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success_with_price", func(t *testing.T) {
		svc, _, publisher := newTestService(t)
		cartID := uuid.NewString()

		publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt cart.Event) error {
				assert.Equal(t, cartID, evt.CartID)
				assert.Equal(t, string(cart.TypeAddToCart), evt.Type)
				assert.Equal(t, cart.ProductID("A"), evt.ProductID)
				assert.Equal(t, 1, evt.Units)
				assert.True(t, decimal.NewFromInt(10).Equal(evt.Total))
				assert.NotEmpty(t, evt.ID)
				return nil
			})

		res, err := svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "A", Name: "Rice", Price: priced("10")})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Rice", res.Items[0].Name)
		assert.Equal(t, 1, res.Items[0].Quantity)
		assert.Equal(t, []string{}, res.Items[0].Image)
		assert.Equal(t, 1, res.Billing.ItemCount)
	})

	t.Run("success_resolves_price_from_catalog", func(t *testing.T) {
		svc, lookup, publisher := newTestService(t)
		cartID := uuid.NewString()

		lookup.EXPECT().
			Lookup(gomock.Any(), cart.ProductID("A")).
			Return(cart.Product{ID: "A", Name: "Basmati", Price: decimal.NewFromInt(99), Image: []string{"a.png"}}, nil)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "A"})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Basmati", res.Items[0].Name)
		assert.True(t, decimal.NewFromInt(99).Equal(res.Billing.Total))
	})

	t.Run("error_lookup_failed", func(t *testing.T) {
		svc, lookup, _ := newTestService(t)
		notFound := apperror.New(apperror.CodeNotFound, "Product not found", http.StatusNotFound)

		lookup.EXPECT().Lookup(gomock.Any(), cart.ProductID("A")).Return(cart.Product{}, notFound)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ID: "A"})
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("error_missing_id", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{Name: "x", Price: priced("1")})
		assert.ErrorIs(t, err, cart.ErrInvalidProduct)
		assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
	})

	t.Run("error_negative_price", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ID: "A", Price: priced("-1")})
		assert.ErrorIs(t, err, cart.ErrNegativePrice)
	})

	t.Run("publish_failure_does_not_fail_command", func(t *testing.T) {
		svc, _, publisher := newTestService(t)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		res, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{ID: "A", Price: priced("1")})
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
	})
}

func TestCartService_QuantityFlow(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()
	cartID := uuid.NewString()

	var types []string
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt cart.Event) error {
			types = append(types, evt.Type)
			return nil
		}).
		Times(5)

	_, err := svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "A", Price: priced("10")})
	require.NoError(t, err)

	res, err := svc.Increment(ctx, cartID, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items[0].Quantity)

	res, err = svc.Increment(ctx, cartID, "A")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(res.Billing.Total))

	q, err := svc.Quantity(ctx, cartID, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, q.Quantity)

	q, err = svc.Quantity(ctx, cartID, "B")
	require.NoError(t, err)
	assert.Equal(t, 0, q.Quantity)

	// absent ids change nothing and publish nothing
	res, err = svc.Decrement(ctx, cartID, "B")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Items[0].Quantity)
	_, err = svc.DeleteItem(ctx, cartID, "B")
	require.NoError(t, err)

	res, err = svc.Decrement(ctx, cartID, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items[0].Quantity)

	res, err = svc.DeleteItem(ctx, cartID, "A")
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	b, err := svc.Billing(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, cartID, b.CartID)
	assert.Equal(t, 0, b.Units)

	// clearing an empty cart is a no-op
	_, err = svc.Clear(ctx, cartID)
	require.NoError(t, err)

	assert.Equal(t, []string{
		string(cart.TypeAddToCart),
		string(cart.TypeIncrementQuantity),
		string(cart.TypeIncrementQuantity),
		string(cart.TypeDecrementQuantity),
		string(cart.TypeRemoveFromCart),
	}, types)
}

func TestCartService_Clear(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()
	cartID := uuid.NewString()
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	_, _ = svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "A", Price: priced("10")})
	_, _ = svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "B", Price: priced("20")})

	res, err := svc.Clear(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.True(t, res.Billing.Total.IsZero())
}

type chanPublisher chan cart.Event

func (c chanPublisher) Publish(_ context.Context, evt cart.Event) error {
	c <- evt
	return nil
}

func TestCartService_BillingUpdatedAfterDebounce(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := make(chanPublisher, 16)

	svc := cart.NewService(cart.Deps{
		Catalog:         mock.NewMockProductLookup(ctrl),
		Publisher:       events,
		BillingDebounce: 50 * time.Millisecond,
		Logger:          zap.NewNop(),
	})
	defer svc.Close()

	ctx := context.Background()
	cartID := uuid.NewString()
	_, err := svc.AddItem(ctx, cartID, cart.AddItemRequest{ID: "A", Price: priced("10")})
	require.NoError(t, err)
	_, err = svc.Increment(ctx, cartID, "A")
	require.NoError(t, err)

	var got []cart.Event
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case evt := <-events:
			got = append(got, evt)
		case <-timeout:
			t.Fatalf("timed out, got %d events", len(got))
		}
	}

	assert.Equal(t, string(cart.TypeAddToCart), got[0].Type)
	assert.Equal(t, string(cart.TypeIncrementQuantity), got[1].Type)
	assert.Equal(t, cart.EventBillingUpdated, got[2].Type)
	assert.Equal(t, 2, got[2].Units)
	assert.True(t, decimal.NewFromInt(20).Equal(got[2].Total))
}
