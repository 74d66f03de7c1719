package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// IPWhitelist returns a middleware that only allows requests from the given
// addresses or CIDR ranges. An empty list allows everyone.
func IPWhitelist(entries []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(entries))
	var nets []*net.IPNet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
			continue
		}
		allowed[e] = true
	}
	open := len(allowed) == 0 && len(nets) == 0

	return func(c *gin.Context) {
		if open {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if allowed[ip] || inAny(nets, net.ParseIP(ip)) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}

func inAny(nets []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
