package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditMiddleware captures the client IP and assigns a request id so audit
// log rows can be correlated with a single HTTP request.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", getClientIP(c))
		c.Set("request_id", uuid.NewString())
		c.Next()
	}
}

// getClientIP extracts the real client IP from proxy headers
func getClientIP(c *gin.Context) string {
	xff := c.GetHeader("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if isValidIP(ip) {
				return ip
			}
		}
	}

	xri := c.GetHeader("X-Real-Ip")
	if xri != "" && isValidIP(xri) {
		return xri
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// GetIPFromContext retrieves the IP address stored by AuditMiddleware
func GetIPFromContext(c *gin.Context) string {
	if ip, exists := c.Get("client_ip"); exists {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return getClientIP(c)
}

// GetRequestIDFromContext retrieves the request id stored by AuditMiddleware
func GetRequestIDFromContext(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if idStr, ok := id.(string); ok {
			return idStr
		}
	}
	return ""
}
