package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotencyReplayHeader = "Idempotent-Replay"

	idempotencyLockTTL     = 30 * time.Second
	idempotencyResponseTTL = 24 * time.Hour
)

// IdempotencyStore keeps in-flight locks and finished responses.
type IdempotencyStore interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisIdempotencyStore struct {
	rdb redis.Cmdable
}

func NewRedisIdempotencyStore(rdb redis.Cmdable) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

func (s *RedisIdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, 1, ttl).Result()
}

func (s *RedisIdempotencyStore) Unlock(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *RedisIdempotencyStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.buf.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key within the same cart session. Requests without the header
// pass through, as does everything when store is nil.
func Idempotency(store IdempotencyStore, logger ...*zap.Logger) gin.HandlerFunc {
	l := zap.L().Named("idempotency")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("idempotency")
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		scope := fmt.Sprintf("%s:%s:%s", c.GetString(CartIDKey), c.FullPath(), key)
		cacheKey := "idempotency:response:" + scope
		lockKey := "idempotency:lock:" + scope

		if replayStored(c, store, cacheKey, l) {
			return
		}

		locked, err := store.Lock(ctx, lockKey, idempotencyLockTTL)
		if err != nil {
			l.Warn("idempotency lock failed, continuing without it", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !locked {
			response.Abort(c, http.StatusConflict, "CONFLICT", "Request with this Idempotency-Key is in progress", nil)
			return
		}
		defer func() {
			if err := store.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
				l.Warn("idempotency unlock failed", zap.String("key", key), zap.Error(err))
			}
		}()

		// the previous holder may have finished between our lookup and the lock
		if replayStored(c, store, cacheKey, l) {
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < 200 || status > 299 {
			return
		}
		raw, err := json.Marshal(storedResponse{Status: status, Body: rec.buf.Bytes()})
		if err != nil {
			return
		}
		if err := store.Save(context.WithoutCancel(ctx), cacheKey, raw, idempotencyResponseTTL); err != nil {
			l.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
			return
		}
		l.Debug("idempotency response cached", zap.String("key", key))
	}
}

// replayStored writes the cached response for cacheKey, if any, and aborts
// the chain.
func replayStored(c *gin.Context, store IdempotencyStore, cacheKey string, l *zap.Logger) bool {
	raw, ok, err := store.Load(c.Request.Context(), cacheKey)
	if err != nil {
		l.Warn("idempotency lookup failed", zap.String("cache_key", cacheKey), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	var stored storedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		l.Warn("idempotency cached response is corrupt", zap.String("cache_key", cacheKey), zap.Error(err))
		return false
	}
	c.Header(IdempotencyReplayHeader, "true")
	c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
	c.Abort()
	return true
}
