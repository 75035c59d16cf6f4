package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

// fixedWindowScript counts hits per key. The first hit opens the window with an expiry.
// Returns {allowed, remaining} where allowed is 1 or 0.
const fixedWindowScript = `
local key = KEYS[1]
local expiry = ARGV[1]
local limit = tonumber(ARGV[2])

local current = redis.call('GET', key)
if current == false then
	redis.call('SET', key, 1, 'EX', expiry)
	return {1, limit - 1}
end

local count = tonumber(current)
if count >= limit then
	return {0, 0}
end

local new_count = redis.call('INCR', key)
return {1, limit - new_count}
`

// Evaler runs a Lua script. *redis.Client satisfies it.
type Evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RateLimiter applies a Redis-backed fixed window per client IP.
type RateLimiter struct {
	client      Evaler
	maxRequests int
	window      time.Duration
	logger      *zap.Logger
}

// NewRateLimiter constructs a limiter. A nil client yields a limiter that admits every request.
func NewRateLimiter(client Evaler, maxRequests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{client: client, maxRequests: maxRequests, window: window, logger: logger}
}

// Limit returns middleware enforcing the window for the named rule. Redis failures let the request through.
func (l *RateLimiter) Limit(rule string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate:fw:%s:ip:%s", rule, c.ClientIP())
		allowed, remaining, err := l.hit(c.Request.Context(), key)
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.String("rule", rule), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.window).Unix(), 10))

		if !allowed {
			l.logger.Info("rate limit exceeded", zap.String("rule", rule), zap.String("ip", c.ClientIP()))
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests,
				fmt.Sprintf("too many requests, please try again in %s", l.window)))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) hit(ctx context.Context, key string) (bool, int, error) {
	result, err := l.client.Eval(ctx, fixedWindowScript, []string{key}, int(l.window.Seconds()), l.maxRequests).Result()
	if err != nil {
		return false, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit reply %T", result)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, fmt.Errorf("unexpected rate limit reply %v", values)
	}
	if remaining < 0 {
		remaining = 0
	}
	return allowed == 1, int(remaining), nil
}
