// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitStore counts hits per key within fixed windows
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisRateLimitStore keeps one counter per key and window in Redis. Counters
// expire with their window.
type RedisRateLimitStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRateLimitStore creates a store backed by client
func NewRedisRateLimitStore(client redis.Cmdable) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, now: time.Now}
}

// Hit increments the counter of the current window and returns it
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := s.now().UnixNano() / int64(window)
	windowKey := fmt.Sprintf("rate_limit:%s:%d", key, bucket)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimitRule limits a route group to Requests per Window per caller
type RateLimitRule struct {
	Scope    string
	Requests int
	Window   time.Duration
}

// RateLimit rejects callers over rule. Authenticated callers are keyed by user id,
// everyone else by client IP. When the store fails the request is let through.
func RateLimit(store RateLimitStore, rule RateLimitRule, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := "ip:" + c.ClientIP()
		if userID, ok := GetUserIDFromContext(c); ok {
			caller = "user:" + userID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		count, err := store.Hit(ctx, rule.Scope+":"+caller, rule.Window)
		cancel()
		if err != nil {
			logger.WithError(err).WithField("scope", rule.Scope).Warn("rate limit store unavailable")
			c.Next()
			return
		}

		remaining := int64(rule.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rule.Requests) {
			retryAfter := int(rule.Window.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}
