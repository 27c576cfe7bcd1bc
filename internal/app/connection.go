package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const retryDelay = 5 * time.Second

func waitRetry(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(retryDelay):
		return nil
	}
}

func connectRedisWithRetry(ctx context.Context, addr string, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	var err error
	for i := 1; i <= maxRetries; i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			logger.Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}

		logger.Warn("redis connection failed",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries {
			if werr := waitRetry(ctx); werr != nil {
				break
			}
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("connect redis %s: %w", addr, err)
}

func connectKafkaWithRetry(ctx context.Context, broker, topic string, maxRetries int, logger *zap.Logger) (*kafka.Writer, error) {
	var err error
	for i := 1; i <= maxRetries; i++ {
		var conn *kafka.Conn
		conn, err = kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			logger.Info("connected to kafka", zap.String("broker", broker), zap.String("topic", topic))
			return &kafka.Writer{
				Addr:                   kafka.TCP(broker),
				Topic:                  topic,
				Balancer:               &kafka.Hash{},
				BatchTimeout:           50 * time.Millisecond,
				AllowAutoTopicCreation: true,
			}, nil
		}

		logger.Warn("kafka connection failed",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries {
			if werr := waitRetry(ctx); werr != nil {
				break
			}
		}
	}

	return nil, fmt.Errorf("connect kafka %s: %w", broker, err)
}

func newOrderEventsReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}
