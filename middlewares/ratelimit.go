package middlewares

import (
	"ClaimProcess/ratelimit"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the server-wide rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// NewRateLimiterMiddleware creates a token bucket shared by every request the
// server handles, independent of the caller.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// KeyFunc extracts the caller identity a per-caller policy is applied to.
type KeyFunc func(c *gin.Context) string

// ClientIPKey identifies callers by network origin.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimitByKey applies a per-caller policy in front of a route. Callers over
// the limit get 429 and never reach the handler. If the limiter itself fails
// the request is let through.
func RateLimitByKey(limiter ratelimit.Limiter, keyFunc KeyFunc, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded: " + limiter.Policy().String(),
			})
			return
		}
		c.Next()
	}
}
