package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultRateLimitPrefix = "streaks:ratelimit:"
	DefaultRateLimitWindow = time.Minute
)

// RateLimitPolicy describes one fixed-window limiter.
type RateLimitPolicy struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// KeyBy names the client a request is counted against. Defaults to ByClientIP.
	KeyBy func(c *gin.Context) string
}

func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// fixedWindow increments the counter and returns it with the remaining window in ms.
// A counter left without an expiry gets one, so it cannot block a client forever.
var fixedWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

func (p RateLimitPolicy) withDefaults() RateLimitPolicy {
	if p.Window <= 0 {
		p.Window = DefaultRateLimitWindow
	}
	if p.KeyPrefix == "" {
		p.KeyPrefix = DefaultRateLimitPrefix
	}
	if p.KeyBy == nil {
		p.KeyBy = ByClientIP
	}
	return p
}

// RateLimiterMiddleware enforces the policy through Redis. It fails open
// when Redis is unavailable.
func RateLimiterMiddleware(rdb redis.Scripter, policy RateLimitPolicy) gin.HandlerFunc {
	policy = policy.withDefaults()

	return func(c *gin.Context) {
		key := policy.KeyPrefix + policy.KeyBy(c)

		res, err := fixedWindow.Run(c.Request.Context(), rdb, []string{key}, policy.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			log.Printf("[RATE] Redis error, limiter skipped for %s: %v", key, err)
			c.Next()
			return
		}
		count, reset := res[0], time.Duration(res[1])*time.Millisecond

		remaining := int64(policy.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if count > int64(policy.Limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retry_in_s": int(reset.Round(time.Second).Seconds()),
			})
			return
		}

		c.Next()
	}
}
