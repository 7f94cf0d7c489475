package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"circustix/internal/shared/utils/response"
	"circustix/pkg/logger"
)

// Middleware limits requests by the type derived from the matched route.
// Holds, payments and checkout steps get their own stricter budgets.
func Middleware(rateLimiter *RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit(c, rateLimiter, log, getRateLimitType(c.FullPath()))
	}
}

func limit(c *gin.Context, rateLimiter *RateLimiter, log *logger.Logger, limitType RateLimitType) {
	clientIP := getClientIP(c)

	result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
	if err != nil {
		// fail open
		log.WithError(err).WarnContext(c.Request.Context(), "Rate limit check failed", "ip", clientIP)
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

	if !result.Allowed {
		log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
		response.RespondJSON(c, "error", http.StatusTooManyRequests,
			"Rate limit exceeded", nil, map[string]interface{}{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
		c.Abort()
		return
	}

	c.Next()
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/holds"):
		return RateLimitTypeHold

	case strings.Contains(path, "/pay"),
		strings.HasSuffix(path, "/orders"),
		strings.Contains(path, "/tickets/redeem"):
		return RateLimitTypeOrder

	case strings.Contains(path, "/checkout/"):
		return RateLimitTypeCheckout

	case strings.Contains(path, "/shows"),
		strings.Contains(path, "/layouts"),
		strings.Contains(path, "/occupancy"),
		strings.Contains(path, "/pricing"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
