package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter keyed by client IP, backed by Redis.
type RateLimiter struct {
	redisClient *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// Limit allows at most limit requests per window. Redis errors let the request
// through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.ClientIP())

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		// First hit opens the window; a counter that cannot expire is dropped.
		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, window).Err(); err != nil {
				rl.redisClient.Del(ctx, key)
				c.Next()
				return
			}
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(ctx, key).Result()
			envelope.Abort(c, http.StatusTooManyRequests, "Too many requests", "", map[string]any{
				"retry_after_seconds": int(math.Ceil(ttl.Seconds())),
			})
			return
		}
		c.Next()
	}
}
