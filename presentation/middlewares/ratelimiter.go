package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimiterConfig struct {
	Scope             string        // Key prefix separating independent limits
	RequestsPerWindow int           // Number of requests allowed
	Window            time.Duration // Time window
	BlockDuration     time.Duration // How long to block after exceeding limit
}

// StrictRateLimiterConfig for the public application and donation forms.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Scope:             "intake",
		RequestsPerWindow: 10,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 15,
	}
}

// ModerateRateLimiterConfig for authenticated admin endpoints.
func ModerateRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Scope:             "admin",
		RequestsPerWindow: 120,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 5,
	}
}

const rateLimitScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local expiry = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local currentCount = redis.call('ZCARD', key)

redis.call('ZADD', key, now, now)
redis.call('EXPIRE', key, expiry)

local remaining = math.max(limit - currentCount - 1, 0)
local allowed = currentCount < limit

return {allowed and 1 or 0, remaining, currentCount + 1}
`

const checkBlockScript = `
local blockKey = KEYS[1]

local exists = redis.call('EXISTS', blockKey)
if exists == 0 then
    return {0, 0}
end

local ttl = redis.call('TTL', blockKey)
return {1, ttl}
`

// RateLimiterMiddleware applies a sliding window per client IP. Redis
// failures let the request through.
func RateLimiterMiddleware(redisClient *redis.Client, logger *logger.Logger, config RateLimiterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		client := config.Scope + ":" + c.ClientIP()

		blockKey := fmt.Sprintf("ratelimit:block:%s", client)
		blockResult, err := redisClient.Eval(ctx, checkBlockScript, []string{blockKey}).Result()
		if err != nil {
			logger.Error("failed to check if client is blocked", zap.Error(err), zap.String("client", client))
			c.Next()
			return
		}

		if blockInfo := blockResult.([]any); blockInfo[0].(int64) == 1 {
			ttl := time.Duration(blockInfo[1].(int64)) * time.Second
			writeLimitHeaders(c, config, 0, time.Now().Add(ttl))
			reject(c, ttl, "Too many requests. You have been temporarily blocked.")
			return
		}

		allowed, remaining, resetTime, err := checkRateLimitAtomic(ctx, redisClient, client, config)
		if err != nil {
			logger.Error("failed to check rate limit", zap.Error(err), zap.String("client", client))
			c.Next()
			return
		}

		writeLimitHeaders(c, config, remaining, resetTime)

		if !allowed {
			if err := blockClient(ctx, redisClient, client, config.BlockDuration); err != nil {
				logger.Error("failed to block client", zap.Error(err), zap.String("client", client))
			}

			logger.Warn("rate limit exceeded",
				zap.String("client", client),
				zap.String("path", c.Request.URL.Path),
			)
			reject(c, config.BlockDuration,
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %v.", config.RequestsPerWindow, config.Window))
			return
		}

		c.Next()
	}
}

func writeLimitHeaders(c *gin.Context, config RateLimiterConfig, remaining int, reset time.Time) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

func reject(c *gin.Context, retryAfter time.Duration, message string) {
	seconds := int(retryAfter.Seconds())
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "rate_limit_exceeded",
		"message":     message,
		"retry_after": seconds,
	})
}

func checkRateLimitAtomic(ctx context.Context, client *redis.Client, key string, config RateLimiterConfig) (allowed bool, remaining int, resetTime time.Time, err error) {
	now := time.Now()

	result, err := client.Eval(ctx, rateLimitScript,
		[]string{"ratelimit:" + key},
		now.UnixNano(),
		config.Window.Nanoseconds(),
		config.RequestsPerWindow,
		int(config.Window.Seconds())+60,
	).Result()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit script failed: %w", err)
	}

	resultArray := result.([]any)
	allowed = resultArray[0].(int64) == 1
	remaining = int(resultArray[1].(int64))
	resetTime = now.Add(config.Window)

	return allowed, remaining, resetTime, nil
}

func blockClient(ctx context.Context, client *redis.Client, key string, duration time.Duration) error {
	return client.Set(ctx, "ratelimit:block:"+key, "1", duration).Err()
}
