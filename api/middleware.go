package api

import (
	"net/http"

	"github.com/abdeldjalilBenchabane/aero-nexus-control-sub000/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests from clients that exceed their per-IP budget.
func RateLimit(limiter *ratelimit.ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
