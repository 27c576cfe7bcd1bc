package config_test

import (
	"testing"
	"time"

	"go-storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("BILLING_DEBOUNCE", "")
		t.Setenv("CART_IDLE_TTL", "")
		t.Setenv("TRACING_ENABLED", "")
		t.Setenv("REDIS_ADDR", "")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "rice", cfg.CatalogKeyword)
		assert.Equal(t, "order.events", cfg.OrderEventsTopic)
		assert.Equal(t, "cart-consumer-group", cfg.CartConsumerGroup)
		assert.Equal(t, 300*time.Millisecond, cfg.BillingDebounce)
		assert.Equal(t, 24*time.Hour, cfg.CartIdleTTL)
		assert.Empty(t, cfg.RedisAddr)
		assert.False(t, cfg.TracingEnabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("CATALOG_KEYWORD", "dal")
		t.Setenv("BILLING_DEBOUNCE", "1s")
		t.Setenv("CART_IDLE_TTL", "2h")
		t.Setenv("TRACING_ENABLED", "true")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "dal", cfg.CatalogKeyword)
		assert.Equal(t, time.Second, cfg.BillingDebounce)
		assert.Equal(t, 2*time.Hour, cfg.CartIdleTTL)
		assert.True(t, cfg.TracingEnabled)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	})

	t.Run("invalid_duration", func(t *testing.T) {
		t.Setenv("CATALOG_TIMEOUT", "soon")

		_, err := config.Load()
		assert.ErrorContains(t, err, "CATALOG_TIMEOUT")
	})

	t.Run("negative_duration", func(t *testing.T) {
		t.Setenv("BILLING_DEBOUNCE", "-1s")

		_, err := config.Load()
		assert.ErrorContains(t, err, "BILLING_DEBOUNCE")
	})

	t.Run("invalid_bool", func(t *testing.T) {
		t.Setenv("TRACING_ENABLED", "maybe")

		_, err := config.Load()
		assert.ErrorContains(t, err, "TRACING_ENABLED")
	})
}
