package utils

import (
	"net"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP returns the caller address.
//
// Forwarding headers (X-Forwarded-For, X-Real-IP) are honored only when the
// socket peer is one of the engine's trusted proxies; see Engine.SetTrustedProxies.
func ExtractClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); isValidIP(ip) {
		return ip
	}
	return "127.0.0.1"
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
