package middleware

import (
	"encoding/json"
	"time"

	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

// CacheIdempotentResult stores a successful mutation result, with its
// status code, under the request's idempotency cache key and drops the
// in-flight lock. No-op when the request carried no Idempotency-Key.
func CacheIdempotentResult(c *gin.Context, rdb *redis.Client, status int, data any) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || rdb == nil {
		return
	}

	body, err := json.Marshal(response.ApiEnvelope{Ok: true, Data: data})
	if err != nil {
		zap.L().Warn("idempotency cache marshal failed", zap.Error(err))
		return
	}
	payload, err := json.Marshal(storedResponse{Status: status, Body: body})
	if err != nil {
		zap.L().Warn("idempotency cache marshal failed", zap.Error(err))
		return
	}

	ctx := c.Request.Context()
	if err := rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL).Err(); err != nil {
		zap.L().Warn("idempotency cache write failed", zap.Error(err))
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		rdb.Del(ctx, lockKey)
	}
}
