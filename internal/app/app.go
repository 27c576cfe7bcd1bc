package app

import (
	"context"

	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/config"
	"go-storefront/internal/middleware"
	"go-storefront/internal/messaging/kafka/producer"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxConnectRetries = 5
	eventBufferSize   = 1024
)

// App holds the wired modules and the infrastructure they share.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	carts     cart.Service
	redis     *redis.Client
	writer    *kafka.Writer
	reader    *kafka.Reader
	publisher *producer.Publisher

	stopPublisher context.CancelFunc
	publisherDone chan struct{}
}

// BuildApp connects the optional infrastructure (redis, kafka) and
// registers every module on router. Empty addresses switch the matching
// feature off.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	// 1. Setup Infrastructure
	var catalogCache catalog.Cache = catalog.NopCache{}
	var idem middleware.IdempotencyStore
	if cfg.RedisAddr != "" {
		rdb, err := connectRedisWithRetry(ctx, cfg.RedisAddr, maxConnectRetries, logger)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		catalogCache = catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL)
		idem = middleware.NewRedisIdempotencyStore(rdb)
	} else {
		logger.Info("REDIS_ADDR not set, catalog cache and idempotency keys disabled")
	}

	var publisher cart.EventPublisher
	if cfg.KafkaBroker != "" {
		w, err := connectKafkaWithRetry(ctx, cfg.KafkaBroker, cfg.CartEventsTopic, maxConnectRetries, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.writer = w
		a.publisher = producer.NewPublisher(w, eventBufferSize, logger)
		a.reader = newOrderEventsReader(cfg.KafkaBroker, cfg.OrderEventsTopic, cfg.CartConsumerGroup)
		publisher = a.publisher
	} else {
		logger.Info("KAFKA_BROKER not set, cart events and order consumer disabled")
	}

	// 2. Register Modules & Routes
	a.registerModules(router, catalogCache, publisher, idem)

	return a, nil
}

// StartBackground adds the kafka consumer loop to g and starts the cart
// event publisher. The publisher ignores ctx: it keeps running until Close,
// after the HTTP server and every cart watcher have stopped publishing.
func (a *App) StartBackground(ctx context.Context, g *errgroup.Group) {
	if a.publisher != nil && a.stopPublisher == nil {
		pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		a.stopPublisher = cancel
		a.publisherDone = make(chan struct{})
		go func() {
			defer close(a.publisherDone)
			if err := a.publisher.Run(pctx); err != nil {
				a.logger.Error("cart event publisher failed", zap.Error(err))
			}
		}()
	}
	if a.reader != nil {
		g.Go(func() error { return a.runConsumer(ctx) })
	}
}

// Close releases everything BuildApp opened. Call it after the HTTP server
// has shut down.
func (a *App) Close() {
	if a.carts != nil {
		a.carts.Close()
	}
	// drain only once nothing can publish anymore
	if a.stopPublisher != nil {
		a.stopPublisher()
		<-a.publisherDone
	}
	if a.reader != nil {
		if err := a.reader.Close(); err != nil {
			a.logger.Warn("closing kafka reader", zap.Error(err))
		}
	}
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Warn("closing kafka writer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", zap.Error(err))
		}
	}
}
