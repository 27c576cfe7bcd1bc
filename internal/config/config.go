package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	CatalogBaseURL      string
	CatalogImageBaseURL string
	CatalogCityID       string
	CatalogKeyword      string
	CatalogTimeout      time.Duration
	CatalogCacheTTL     time.Duration

	RedisAddr string

	KafkaBroker       string
	OrderEventsTopic  string
	CartEventsTopic   string
	CartConsumerGroup string

	BillingDebounce time.Duration
	CartIdleTTL     time.Duration
	TracingEnabled  bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:     getString("PORT", "3000"),
		LogLevel: getString("LOG_LEVEL", "info"),

		CatalogBaseURL:      getString("CATALOG_BASE_URL", "https://devfrontendapi.aapkabazar.co"),
		CatalogImageBaseURL: getString("CATALOG_IMAGE_BASE_URL", "https://image.aapkabazar.co"),
		CatalogCityID:       getString("CATALOG_CITY_ID", "619f219d26d9ad0f34102dd2"),
		CatalogKeyword:      getString("CATALOG_KEYWORD", "rice"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		OrderEventsTopic:  getString("KAFKA_ORDER_EVENTS_TOPIC", "order.events"),
		CartEventsTopic:   getString("KAFKA_CART_EVENTS_TOPIC", "cart.events"),
		CartConsumerGroup: getString("KAFKA_CART_CONSUMER_GROUP", "cart-consumer-group"),
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"CATALOG_TIMEOUT", 10 * time.Second, &cfg.CatalogTimeout},
		{"CATALOG_CACHE_TTL", 5 * time.Minute, &cfg.CatalogCacheTTL},
		{"BILLING_DEBOUNCE", 300 * time.Millisecond, &cfg.BillingDebounce},
		{"CART_IDLE_TTL", 24 * time.Hour, &cfg.CartIdleTTL},
		{"HTTP_READ_TIMEOUT", 5 * time.Second, &cfg.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", 10 * time.Second, &cfg.WriteTimeout},
		{"HTTP_IDLE_TIMEOUT", 60 * time.Second, &cfg.IdleTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", 10 * time.Second, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			return Config{}, err
		}
		*d.dest = v
	}

	tracing, err := getBool("TRACING_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	cfg.TracingEnabled = tracing

	if cfg.CatalogBaseURL == "" {
		return Config{}, fmt.Errorf("CATALOG_BASE_URL must not be empty")
	}

	return cfg, nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
