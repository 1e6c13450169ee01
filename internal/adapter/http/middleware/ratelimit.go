package middleware

import (
	"context"
	"strconv"
	"time"

	"wallet-service/config"
	redisStore "wallet-service/internal/adapter/storage/redis"
	"wallet-service/pkg/apperror"
	"wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	GroupOperations = "operations"
	GroupReads      = "reads"
)

// RateLimitRule caps requests per client within one window. Limit <= 0
// turns the group off.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// RateLimitCounter counts one hit against key in the current window.
type RateLimitCounter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

func RateLimitRules(cfg config.RateLimitConfig) map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupOperations: {Limit: cfg.OperationsPerMinute, Window: time.Minute},
		GroupReads:      {Limit: cfg.ReadsPerMinute, Window: time.Minute},
	}
}

// RateLimiter enforces rule per client IP within group. Counter failures
// fail open: a redis outage must not take the wallet API down with it.
func RateLimiter(counter RateLimitCounter, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	if rule.Limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		res, err := counter.Allow(c.Request.Context(), group+":"+c.ClientIP(), rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).
				Str("group", group).
				Str("request_id", c.GetString(response.CtxRequestID)).
				Msg("rate limit counter unavailable, request let through")
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt, 10))

		if res.Allowed {
			c.Next()
			return
		}

		h.Set("Retry-After", strconv.FormatInt(int64(res.RetryIn/time.Second), 10))
		response.Error(c, apperror.ErrRateLimitExceeded())
		c.Abort()
	}
}
