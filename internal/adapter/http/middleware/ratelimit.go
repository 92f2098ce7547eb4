package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ricemill-erp/config"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/telemetry"
	"ricemill-erp/pkg/apperror"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	RuleRead  = "read"
	RuleWrite = "write"
)

// RateLimitRule defines a request budget per window.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// RateLimitRules builds the read and write budgets from configuration.
func RateLimitRules(cfg config.RateLimitConfig) map[string]RateLimitRule {
	return map[string]RateLimitRule{
		RuleRead:  {Limit: cfg.ReadRequests, Window: cfg.Window},
		RuleWrite: {Limit: cfg.WriteRequests, Window: cfg.Window},
	}
}

// RateLimiter applies the read rule to safe methods and the write rule to
// everything else. Limiter failures let the request through.
func RateLimiter(limiter ports.RateLimiter, rules map[string]RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := ruleFor(c.Request.Method)
		rule, ok := rules[name]
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", extractIdentifier(c), name)
		result, err := limiter.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("rule", name).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			telemetry.RateLimitRejectionsTotal.WithLabelValues(name).Inc()
			response.Abort(c, apperror.ErrRateLimitExceeded())
			return
		}

		c.Next()
	}
}

func ruleFor(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return RuleRead
	default:
		return RuleWrite
	}
}

// extractIdentifier keys limits by the token-verified user id, else client
// IP. Names from identity headers are client-chosen and never used.
func extractIdentifier(c *gin.Context) string {
	if id := ActorFrom(c).UserID; id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
