package middleware

import (
	"context"
	"strconv"
	"time"

	redisStore "escrow-wallet-ledger/internal/adapter/storage/redis"
	"escrow-wallet-ledger/pkg/apperror"
	"escrow-wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule is the request budget of one endpoint group per caller.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the budgets per endpoint group. Release is generous
// because the submitter reports every wallet it was handed.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"reservations": {Limit: 120, Window: time.Minute},
		"credits":      {Limit: 30, Window: time.Minute},
		"release":      {Limit: 600, Window: time.Minute},
	}
}

// Limiter counts requests in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// RateLimiter enforces rule for group, keyed by caller. Limiter errors are logged
// and the request is let through.
func RateLimiter(limiter Limiter, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerKey(c)

		result, err := limiter.Allow(c.Request.Context(), caller+":"+group, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Str("caller", caller).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			c.Header("Retry-After", strconv.FormatInt(result.RetryAfter(time.Now()), 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}
		c.Next()
	}
}

// callerKey prefers the authenticated client id, then the claimed one, then the peer address.
func callerKey(c *gin.Context) string {
	if id := c.GetString(CtxClientID); id != "" {
		return id
	}
	if id := c.GetHeader(HeaderClientID); id != "" {
		return id
	}
	return c.ClientIP()
}
