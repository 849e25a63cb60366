package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"banquet-backoffice/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit enforces a fixed-window request budget per client IP, counted in
// redis so every replica shares one view. When redis is unreachable the
// limiter fails open: an outage in the counter store must not take the API
// down with it.
func RateLimit(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	window := cfg.RateLimit.Window
	limit := cfg.RateLimit.Requests

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			zap.L().Warn("rate limit store unreachable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				zap.L().Warn("failed to set rate limit window", zap.Error(err))
			}
		}

		if count > int64(limit) {
			ttl, _ := rdb.TTL(ctx, key).Result()
			retryAfter := int(ttl.Seconds())
			if retryAfter < 1 {
				retryAfter = int(window.Seconds())
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests",
			})
			return
		}

		c.Next()
	}
}
