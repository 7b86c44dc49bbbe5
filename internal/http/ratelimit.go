package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RateLimitConfig struct {
	Capacity       int
	RefillInterval time.Duration
	Prefix         string
	// Now is the limiter's clock; time.Now when nil.
	Now func() time.Time
}

// tokenBucket refills one token per interval and takes one per request. It
// returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + intervals * interval_ms
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return { allowed, tokens, retry_after_ms }
`)

// NewRateLimiter limits requests per client IP and route. Redis errors let
// the request through.
func NewRateLimiter(rdb redis.Scripter, cfg RateLimitConfig, logger *logrus.Logger) gin.HandlerFunc {
	if rdb == nil || cfg.Capacity <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "talent:ratelimit"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ttl := int64(cfg.RefillInterval*time.Duration(cfg.Capacity)/time.Second) + 1

	return func(c *gin.Context) {
		key := strings.Join([]string{cfg.Prefix, c.ClientIP(), c.Request.Method, c.FullPath()}, ":")
		args := []interface{}{
			cfg.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillInterval.Milliseconds(),
			ttl,
		}

		vals, err := tokenBucket.Run(c.Request.Context(), rdb, []string{key}, args...).Result()
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("rate limit check failed")
			c.Next()
			return
		}
		allowed, remaining, retryMs, ok := parseBucketResult(vals)
		if !ok {
			logger.WithField("result", fmt.Sprintf("%#v", vals)).Warn("unexpected rate limit result")
			c.Next()
			return
		}

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Writer.Header().Set("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "Too many requests. Please try again later.",
				"reason": "rate_limited",
			})
			return
		}
		c.Next()
	}
}

func parseBucketResult(vals interface{}) (allowed bool, remaining, retryMs int64, ok bool) {
	arr, isSlice := vals.([]interface{})
	if !isSlice || len(arr) != 3 {
		return false, 0, 0, false
	}
	return asInt64(arr[0]) == 1, asInt64(arr[1]), asInt64(arr[2]), true
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
