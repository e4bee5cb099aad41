package middleware

import (
	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/shared/utils"
)

const ContextClientIP = "client_ip"

// ClientIPMiddleware resolves the caller address once for logging and rate limiting.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
