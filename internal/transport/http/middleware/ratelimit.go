package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pdfqa/internal/pkg/ratelimit"
	"pdfqa/internal/transport/http/response"
)

// RateLimit rejects callers over the sliding-window budget with a 429.
// Blocked identities are refused outright until restart.
func RateLimit(limiter *ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			if limiter.Blocked(ip) {
				logger.Warn("blocked identity rejected", zap.String("client_ip", ip))
			}
			c.Header("Retry-After", "60")
			response.Error(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
